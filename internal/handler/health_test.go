package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthResponseHealthy(t *testing.T) {
	status, body := healthResponse(true, true, "kafka", 0)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "connected", body["redis"])
	assert.Equal(t, "kafka", body["event_sink"])
	assert.NotContains(t, body, "events_parked")
}

func TestHealthResponseDegraded(t *testing.T) {
	status, body := healthResponse(false, true, "redis", 0)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "error", body["db"])
	assert.Equal(t, "connected", body["redis"])

	status, body = healthResponse(true, false, "redis", 0)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "error", body["redis"])
}

func TestHealthResponseReportsParkedEvents(t *testing.T) {
	_, body := healthResponse(true, true, "kafka", 7)
	assert.EqualValues(t, 7, body["events_parked"])
}
