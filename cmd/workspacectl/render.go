package main

import (
	"fmt"
	"io"
	"strings"

	"workspace-be/internal/entity"
	"workspace-be/pkg/workspace"

	"github.com/fatih/color"
)

var (
	containerStyle = color.New(color.FgBlue, color.Bold)
	categoryStyle  = color.New(color.FgMagenta)
	idStyle        = color.New(color.Faint)
)

func renderTree(w io.Writer, forest []entity.Folder) {
	if len(forest) == 0 {
		fmt.Fprintln(w, "(empty workspace)")
		return
	}
	for _, f := range forest {
		renderContainer(w, 0, f.Name, f)
	}
}

func renderContainer(w io.Writer, depth int, name string, c entity.Container) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s %s\n", indent,
		containerStyle.Sprint(name),
		categoryStyle.Sprintf("[%s]", workspace.Classify(c)),
		idStyle.Sprint(c.ContainerId()),
	)

	content := c.Content()
	for _, s := range content.Subfolders {
		renderContainer(w, depth+1, s.Name, s)
	}
	leaf := indent + "  "
	for _, n := range content.Notes {
		fmt.Fprintf(w, "%snote     %s %s\n", leaf, n.Title, idStyle.Sprint(n.Id))
	}
	for _, t := range content.Tasks {
		fmt.Fprintf(w, "%stask     %s (%s, %s) %s\n", leaf, t.Title, t.Status, t.Priority, idStyle.Sprint(t.Id))
	}
	for _, s := range content.CalendarSchedules {
		fmt.Fprintf(w, "%sschedule %s %s %s\n", leaf, s.Title, s.StartTime.Format("2006-01-02 15:04"), idStyle.Sprint(s.Id))
	}
}

func renderNotes(w io.Writer, notes []entity.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "(no notes)")
		return
	}
	for _, n := range notes {
		tags := ""
		if len(n.Tags) > 0 {
			tags = categoryStyle.Sprintf(" #%s", strings.Join(n.Tags, " #"))
		}
		fmt.Fprintf(w, "%s  %s%s\n", idStyle.Sprint(n.Id), n.Title, tags)
	}
}
