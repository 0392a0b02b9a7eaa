package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/model"
)

func TestNewMessage(t *testing.T) {
	now := time.Date(2024, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	body, err := newMessage(model.Signal{ID: 7, Platform: model.PlatformTwitter, Title: "tinygrad"}, now)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ingested", got["action"])
	assert.Equal(t, "2024-06-01T12:00:00Z", got["timestamp"])
	sig := got["signal"].(map[string]any)
	assert.EqualValues(t, 7, sig["id"])
	assert.Equal(t, "Twitter", sig["platform"])
}
