package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/posts", nil)

	page, limit := parsePagination(r, 10)

	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestParsePaginationFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/posts?page=3&limit=25", nil)

	page, limit := parsePagination(r, 10)

	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(25), limit)
}

func TestParsePaginationRejectsInvalidValues(t *testing.T) {
	cases := []string{
		"/posts?page=0&limit=-5",
		"/posts?page=abc&limit=xyz",
		"/posts?page=-1",
	}

	for _, target := range cases {
		r := httptest.NewRequest(http.MethodGet, target, nil)

		page, limit := parsePagination(r, 10)

		assert.Equal(t, int64(1), page, target)
		assert.Equal(t, int64(10), limit, target)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), totalPages(0, 10))
	assert.Equal(t, int64(1), totalPages(1, 10))
	assert.Equal(t, int64(1), totalPages(10, 10))
	assert.Equal(t, int64(2), totalPages(11, 10))
	assert.Equal(t, int64(0), totalPages(5, 0))
}

func TestRespondErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	respondError(w, http.StatusNotFound, "Post not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Post not found", body["message"])
}
