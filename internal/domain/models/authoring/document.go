package authoring

import (
	"sort"
	"time"
)

// Section is one entry of a document outline: a Word section or a slide.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// Structure is the ordered outline of a document.
type Structure []Section

// Find returns the section with the given id.
func (s Structure) Find(sectionID string) (Section, bool) {
	for _, sec := range s {
		if sec.ID == sectionID {
			return sec, true
		}
	}
	return Section{}, false
}

// Sorted returns a copy ordered by Order, ties by position.
func (s Structure) Sorted() Structure {
	out := make(Structure, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// IDs returns the section ids in the structure's current order.
func (s Structure) IDs() []string {
	ids := make([]string, len(s))
	for i, sec := range s {
		ids[i] = sec.ID
	}
	return ids
}

// SectionContent maps section id to its current text. It is treated as an
// immutable value: mutations return a new map and leave the receiver intact.
type SectionContent map[string]string

// Get returns the text of a section and whether it has any.
func (c SectionContent) Get(sectionID string) (string, bool) {
	text, ok := c[sectionID]
	return text, ok
}

// Clone returns an independent copy; nil stays an empty map.
func (c SectionContent) Clone() SectionContent {
	out := make(SectionContent, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// With returns a copy of c with sectionID set to text.
func (c SectionContent) With(sectionID, text string) SectionContent {
	out := c.Clone()
	out[sectionID] = text
	return out
}

// Without returns a copy of c minus the given sections.
func (c SectionContent) Without(sectionIDs ...string) SectionContent {
	drop := make(map[string]struct{}, len(sectionIDs))
	for _, id := range sectionIDs {
		drop[id] = struct{}{}
	}
	out := make(SectionContent, len(c))
	for k, v := range c {
		if _, ok := drop[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Document is the single outline+content record owned by a project.
type Document struct {
	ID        string         `json:"id" db:"id"`
	ProjectID string         `json:"project_id" db:"project_id"`
	Structure Structure      `json:"structure" db:"structure"`
	Content   SectionContent `json:"content" db:"content"`
	Version   int            `json:"version" db:"version"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// HasContent reports whether the section has been generated.
func (d *Document) HasContent(sectionID string) bool {
	_, ok := d.Content[sectionID]
	return ok
}

// Clone returns a deep copy safe to hand out of a store.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Structure = append(Structure(nil), d.Structure...)
	out.Content = d.Content.Clone()
	return &out
}
