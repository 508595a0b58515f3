package handlers

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeState(t *testing.T, state oauthState) string {
	t.Helper()
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	return base64.URLEncoding.EncodeToString(raw)
}

func TestDecodeStateRoundTrip(t *testing.T) {
	encoded := encodeState(t, oauthState{UserID: "tenant-1", Timestamp: time.Now().Unix()})

	state, err := decodeState(encoded)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", state.UserID)
}

func TestDecodeStateRejects(t *testing.T) {
	_, err := decodeState("")
	assert.Error(t, err)

	_, err = decodeState("not-base64!!!")
	assert.Error(t, err)

	_, err = decodeState(encodeState(t, oauthState{Timestamp: time.Now().Unix()}))
	assert.Error(t, err, "state without user id")

	stale := time.Now().Add(-stateMaxAge - time.Minute).Unix()
	_, err = decodeState(encodeState(t, oauthState{UserID: "tenant-1", Timestamp: stale}))
	assert.Error(t, err, "expired state")
}
