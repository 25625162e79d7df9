package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJotLifecycle walks the main social flow through the HTTP surface:
// create, follow, feed, react, comment, delete.
func TestJotLifecycle(t *testing.T) {
	tokenA, userA := registerUser(t, "author")
	tokenB, _ := registerUser(t, "reader")

	status, payload := doJSON(t, http.MethodPost, "/api/jots", tokenA, map[string]string{
		"content": "first jot",
	})
	require.Equal(t, http.StatusCreated, status, "payload %v", payload)
	jot := payload["data"].(map[string]any)
	jotID := uint(jot["id"].(float64))
	assert.Equal(t, "first jot", jot["content"])

	t.Run("feed excludes strangers", func(t *testing.T) {
		status, payload := doJSON(t, http.MethodGet, "/api/jots/feed", tokenB, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), payload["total"])
	})

	t.Run("follow brings jot into feed", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", userA), tokenB, nil)
		require.Equal(t, http.StatusOK, status)

		status, payload := doJSON(t, http.MethodGet, "/api/jots/feed", tokenB, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), payload["total"])
		assert.Equal(t, false, payload["has_more"])
	})

	t.Run("reaction toggles", func(t *testing.T) {
		path := fmt.Sprintf("/api/jots/%d/reactions", jotID)

		status, payload := doJSON(t, http.MethodPost, path, tokenB, map[string]string{"kind": "like"})
		require.Equal(t, http.StatusOK, status)
		data := payload["data"].(map[string]any)
		assert.Equal(t, true, data["reacted"])
		assert.Equal(t, "like", data["kind"])

		// A second reaction removes the first, whatever its kind.
		status, payload = doJSON(t, http.MethodPost, path, tokenB, map[string]string{"kind": "love"})
		require.Equal(t, http.StatusOK, status)
		data = payload["data"].(map[string]any)
		assert.Equal(t, false, data["reacted"])
	})

	t.Run("invalid reaction kind", func(t *testing.T) {
		status, payload := doJSON(t, http.MethodPost,
			fmt.Sprintf("/api/jots/%d/reactions", jotID), tokenB, map[string]string{"kind": "meh"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", payload["code"])
	})

	t.Run("comments", func(t *testing.T) {
		path := fmt.Sprintf("/api/jots/%d/comments", jotID)

		status, payload := doJSON(t, http.MethodPost, path, tokenB, map[string]string{"body": "nice one"})
		require.Equal(t, http.StatusCreated, status, "payload %v", payload)

		status, payload = doJSON(t, http.MethodGet, path, tokenB, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), payload["total"])

		// The counter cache on the jot follows the comment row.
		status, payload = doJSON(t, http.MethodGet, fmt.Sprintf("/api/jots/%d", jotID), tokenA, nil)
		require.Equal(t, http.StatusOK, status)
		data := payload["data"].(map[string]any)
		assert.Equal(t, float64(1), data["comments_count"])
	})

	t.Run("delete is owner-only", func(t *testing.T) {
		status, payload := doJSON(t, http.MethodDelete, fmt.Sprintf("/api/jots/%d", jotID), tokenB, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "AUTHORIZATION_ERROR", payload["code"])

		status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/jots/%d", jotID), tokenA, nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, http.MethodGet, fmt.Sprintf("/api/jots/%d", jotID), tokenA, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestCreateJotValidation(t *testing.T) {
	token, _ := registerUser(t, "strict")

	status, payload := doJSON(t, http.MethodPost, "/api/jots", token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", payload["code"])
}
