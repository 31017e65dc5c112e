package entity

import "time"

type CalendarSchedule struct {
	Id          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required,gtefield=StartTime"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"createdAt" validate:"required"`
	FolderId    *string   `json:"folderId"`
	Attendees   []string  `json:"attendees"`
}

func (c CalendarSchedule) ItemId() string { return c.Id }
func (c CalendarSchedule) Kind() ItemKind { return KindSchedule }
