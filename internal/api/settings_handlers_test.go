package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietshelf/quietshelf-server/internal/domain"
)

func TestGetSettingsDefault(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doRequest(t, server, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var settings domain.Settings
	decodeEnvelope(t, rec, &settings)
	assert.Equal(t, "dark", settings.Theme)
}

func TestUpdateSettings(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doRequest(t, server, http.MethodPut, "/api/v1/settings", map[string]any{
		"theme": "sepia",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var settings domain.Settings
	decodeEnvelope(t, rec, &settings)
	assert.Equal(t, "sepia", settings.Theme)

	// The change persists.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &settings)
	assert.Equal(t, "sepia", settings.Theme)
}

func TestUpdateSettingsRejectsUnknownTheme(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doRequest(t, server, http.MethodPut, "/api/v1/settings", map[string]any{
		"theme": "neon",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec, nil)
	assert.False(t, env.Success)
}
