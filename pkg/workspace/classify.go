package workspace

import "workspace-be/internal/entity"

// Category is presentation metadata derived from what a container holds.
type Category string

const (
	CategoryFolder   Category = "folder"
	CategoryNote     Category = "note"
	CategoryTask     Category = "task"
	CategorySchedule Category = "schedule"
)

// Classify reports the single content kind a container holds. Empty,
// subfolder-only and mixed containers are plain folders.
func Classify(c entity.Container) Category {
	content := c.Content()

	present := 0
	for _, n := range []int{
		len(content.Subfolders),
		len(content.Tasks),
		len(content.Notes),
		len(content.CalendarSchedules),
	} {
		if n > 0 {
			present++
		}
	}
	if present != 1 {
		return CategoryFolder
	}

	switch {
	case len(content.Notes) > 0:
		return CategoryNote
	case len(content.Tasks) > 0:
		return CategoryTask
	case len(content.CalendarSchedules) > 0:
		return CategorySchedule
	}
	return CategoryFolder
}
