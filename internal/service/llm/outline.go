package llm

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"docsmith/internal/domain/models/authoring"
)

// ParseOutline extracts a structure from a model answer. The answer should
// be a JSON array of {id,title,order}, but leading prose and code fences are
// tolerated. Missing ids and orders are filled from the position; duplicate
// ids are renumbered.
func ParseOutline(raw string, docType authoring.DocumentType) (authoring.Structure, error) {
	text := stripFence(strings.TrimSpace(raw))
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("outline: no JSON array in answer")
	}
	text = text[start : end+1]
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("outline: invalid JSON")
	}

	unit := docType.UnitName()
	seen := map[string]bool{}
	var structure authoring.Structure

	gjson.Parse(text).ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		title := strings.TrimSpace(item.Get("title").String())
		if title == "" {
			return true
		}
		pos := len(structure)

		id := strings.TrimSpace(item.Get("id").String())
		for n := pos + 1; id == "" || seen[id]; n++ {
			id = fmt.Sprintf("%s-%d", unit, n)
		}
		seen[id] = true

		order := pos
		if o := item.Get("order"); o.Exists() && o.Type == gjson.Number {
			order = int(o.Int())
		}

		structure = append(structure, authoring.Section{ID: id, Title: title, Order: order})
		return true
	})

	if len(structure) == 0 {
		return nil, fmt.Errorf("outline: no usable entries")
	}

	// Renumber so orders are unique and dense, keeping the model's ordering
	structure = structure.Sorted()
	for i := range structure {
		structure[i].Order = i
	}
	return structure, nil
}

// FallbackOutline is used when the model cannot produce an outline.
func FallbackOutline(docType authoring.DocumentType) authoring.Structure {
	if docType == authoring.DocumentTypePowerPoint {
		return authoring.Structure{
			{ID: "slide-1", Title: "Title Slide", Order: 0},
			{ID: "slide-2", Title: "Overview", Order: 1},
			{ID: "slide-3", Title: "Key Points", Order: 2},
			{ID: "slide-4", Title: "Details", Order: 3},
			{ID: "slide-5", Title: "Conclusion", Order: 4},
		}
	}
	return authoring.Structure{
		{ID: "section-1", Title: "Introduction", Order: 0},
		{ID: "section-2", Title: "Background", Order: 1},
		{ID: "section-3", Title: "Analysis", Order: 2},
		{ID: "section-4", Title: "Findings", Order: 3},
		{ID: "section-5", Title: "Conclusion", Order: 4},
	}
}
