package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// MaxBodyBytes caps JSON request bodies
const MaxBodyBytes = 10 << 20

// ParseJSON decodes the request body into dest. Unknown fields are rejected.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// QueryInt reads an integer query parameter. Missing or unparsable values
// yield def; parsed values are clamped to [min, max].
func QueryInt(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
