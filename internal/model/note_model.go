package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteOwner struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Note struct {
	Id        string                         `gorm:"type:varchar(64);primaryKey"`
	Title     string                         `gorm:"type:varchar(255);not null"`
	Body      datatypes.JSON                 `gorm:"type:jsonb"`
	FolderId  *string                        `gorm:"type:varchar(64);index"`
	Tags      datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	Owners    datatypes.JSONSlice[NoteOwner] `gorm:"type:jsonb"`
	CreatedAt time.Time                      `gorm:"not null;index"`
	UpdatedAt time.Time                      `gorm:"not null"`
	DeletedAt gorm.DeletedAt                 `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
