package entity

import "time"

// Clone helpers return deep copies that keep nil and empty slices distinct,
// so a cloned value is reflect.DeepEqual to its source.

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

func cloneStringPtr(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneTimePtr(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func (b NoteBlock) Clone() NoteBlock {
	return NoteBlock{Type: b.Type, Text: b.Text, Items: cloneStrings(b.Items)}
}

func (n Note) Clone() Note {
	out := n
	out.FolderId = cloneStringPtr(n.FolderId)
	out.Tags = cloneStrings(n.Tags)
	if n.Body != nil {
		out.Body = make([]NoteBlock, len(n.Body))
		for i, b := range n.Body {
			out.Body[i] = b.Clone()
		}
	}
	if n.Owners != nil {
		out.Owners = append(make([]Owner, 0, len(n.Owners)), n.Owners...)
	}
	return out
}

func CloneNotes(in []Note) []Note {
	if in == nil {
		return nil
	}
	out := make([]Note, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}

func (t Task) Clone() Task {
	out := t
	out.DueDate = cloneTimePtr(t.DueDate)
	out.FolderId = cloneStringPtr(t.FolderId)
	return out
}

func (c CalendarSchedule) Clone() CalendarSchedule {
	out := c
	out.FolderId = cloneStringPtr(c.FolderId)
	out.Attendees = cloneStrings(c.Attendees)
	return out
}

func (c Contents) Clone() Contents {
	var out Contents
	if c.Subfolders != nil {
		out.Subfolders = make([]Subfolder, len(c.Subfolders))
		for i, s := range c.Subfolders {
			out.Subfolders[i] = s.Clone()
		}
	}
	if c.Tasks != nil {
		out.Tasks = make([]Task, len(c.Tasks))
		for i, t := range c.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	out.Notes = CloneNotes(c.Notes)
	if c.CalendarSchedules != nil {
		out.CalendarSchedules = make([]CalendarSchedule, len(c.CalendarSchedules))
		for i, s := range c.CalendarSchedules {
			out.CalendarSchedules[i] = s.Clone()
		}
	}
	return out
}

func (s Subfolder) Clone() Subfolder {
	out := s
	out.Contents = s.Contents.Clone()
	return out
}

func (f Folder) Clone() Folder {
	out := f
	out.ParentFolderId = cloneStringPtr(f.ParentFolderId)
	out.Contents = f.Contents.Clone()
	return out
}

func CloneFolders(in []Folder) []Folder {
	if in == nil {
		return nil
	}
	out := make([]Folder, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}
