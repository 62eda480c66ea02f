package health

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_NoDependenciesConfigured(t *testing.T) {
	app := fiber.New()
	app.Get("/health/json", (&Handlers{}).JSON)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/json", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "not configured", body["db"])
	assert.Equal(t, "not configured", body["redis"])
}

func TestJSON_ReportsRedisStatus(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	app.Get("/health/json", (&Handlers{Rdb: rdb}).JSON)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/json", nil), -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "connected", body["redis"])
}
