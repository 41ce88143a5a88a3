package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	var body struct {
		Reaction Optional[string] `json:"reaction"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.Reaction.Present)

	require.NoError(t, json.Unmarshal([]byte(`{"reaction":null}`), &body))
	assert.True(t, body.Reaction.Present)
	assert.Nil(t, body.Reaction.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"reaction":"like"}`), &body))
	require.NotNil(t, body.Reaction.Value)
	assert.Equal(t, "like", *body.Reaction.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"reaction":5}`), &body))
}

func TestParseJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, ParseJSON(httptest.NewRecorder(), r, &dest))
	assert.Equal(t, "x", dest.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := ParseJSON(httptest.NewRecorder(), r, &dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty body")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","other":1}`))
	assert.Error(t, ParseJSON(httptest.NewRecorder(), r, &dest))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-3&bad=abc", nil)
	assert.Equal(t, 100, QueryInt(r, "limit", 20, 1, 100))
	assert.Equal(t, 0, QueryInt(r, "offset", 0, 0, 1000))
	assert.Equal(t, 20, QueryInt(r, "bad", 20, 1, 100))
	assert.Equal(t, 7, QueryInt(r, "missing", 7, 1, 100))
}

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusBadGateway, "section 's1': content generation failed", map[string]interface{}{
		"section_id": "s1",
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bad Gateway", body["title"])
	assert.EqualValues(t, 502, body["status"])
	assert.Equal(t, "s1", body["section_id"])
}

func TestRespondFile(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondFile(rec, "My Report.md", "text/markdown; charset=utf-8", []byte("# Hi"))

	assert.Equal(t, `attachment; filename="My Report.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "# Hi", rec.Body.String())
}
