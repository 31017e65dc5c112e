package entity

import "time"

type ItemKind string

const (
	KindFolder    ItemKind = "folder"
	KindSubfolder ItemKind = "subfolder"
	KindNote      ItemKind = "note"
	KindTask      ItemKind = "task"
	KindSchedule  ItemKind = "schedule"
)

func (k ItemKind) Valid() bool {
	switch k {
	case KindFolder, KindSubfolder, KindNote, KindTask, KindSchedule:
		return true
	}
	return false
}

// Item is anything that can be placed into the workspace tree.
type Item interface {
	ItemId() string
	Kind() ItemKind
}

// Contents holds the collections owned by a folder or subfolder.
type Contents struct {
	Subfolders        []Subfolder        `json:"subfolders" validate:"dive"`
	Tasks             []Task             `json:"tasks" validate:"dive"`
	Notes             []Note             `json:"notes" validate:"dive"`
	CalendarSchedules []CalendarSchedule `json:"calendarSchedules" validate:"dive"`
}

// Container is implemented by Folder and Subfolder.
type Container interface {
	ContainerId() string
	Content() Contents
}

// Folder is a top-level node of the workspace forest. ParentFolderId is always nil.
type Folder struct {
	Id             string    `json:"id" validate:"required"`
	Name           string    `json:"name" validate:"required"`
	CreatedAt      time.Time `json:"createdAt" validate:"required"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ParentFolderId *string   `json:"parentFolderId"`
	Contents
}

func (f Folder) ItemId() string      { return f.Id }
func (f Folder) Kind() ItemKind      { return KindFolder }
func (f Folder) ContainerId() string { return f.Id }
func (f Folder) Content() Contents   { return f.Contents }

// Subfolder is any non top-level node. ParentFolderId points at the owning
// folder or subfolder.
type Subfolder struct {
	Id             string    `json:"id" validate:"required"`
	Name           string    `json:"name" validate:"required"`
	CreatedAt      time.Time `json:"createdAt" validate:"required"`
	ParentFolderId string    `json:"parentFolderId" validate:"required"`
	Contents
}

func (s Subfolder) ItemId() string      { return s.Id }
func (s Subfolder) Kind() ItemKind      { return KindSubfolder }
func (s Subfolder) ContainerId() string { return s.Id }
func (s Subfolder) Content() Contents   { return s.Contents }
