package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a JSON field was present and whether it was null.
//   - Present=false: field absent
//   - Present=true, Value=nil: explicit null
//   - Present=true, Value!=nil: a value
//
// Used where null carries meaning, e.g. a feedback click that clears the reaction.
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON is only called when the field is present
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
