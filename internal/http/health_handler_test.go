package http_test

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/ga"
	internalhttp "trafficlens/internal/http"
	"trafficlens/internal/testsupport"
)

func TestConnectionTestAction(t *testing.T) {
	backend := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte(`{"rows":[{"metricValues":[{"value":"5"}]}],"rowCount":1}`))
	}))
	t.Cleanup(backend.Close)

	client := ga.NewClient(ga.Config{
		PropertyID: "123456789",
		Endpoint:   backend.URL,
		HTTPClient: backend.Client(),
	}, testsupport.Logger())

	app := fiber.New()
	app.Get("/api/v1/connection-test", internalhttp.ConnectionTestAction(client))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/connection-test", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status ga.ConnectionStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Success)
	assert.Contains(t, status.Message, "123456789")
}

func TestConnectionTestActionReportsFailure(t *testing.T) {
	backend := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"permission denied"}}`))
	}))
	t.Cleanup(backend.Close)

	client := ga.NewClient(ga.Config{
		PropertyID: "123456789",
		Endpoint:   backend.URL,
		HTTPClient: backend.Client(),
	}, testsupport.Logger())

	app := fiber.New()
	app.Get("/api/v1/connection-test", internalhttp.ConnectionTestAction(client))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/connection-test", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status ga.ConnectionStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Success)
	assert.Contains(t, status.Message, "permission denied")
}
