package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRoundTrip(t *testing.T) {
	assert.Equal(t, "events.CONTRACT_READY", Subject("CONTRACT_READY"))
	assert.Equal(t, "CONTRACT_READY", EventType("events.CONTRACT_READY"))
	assert.Equal(t, "PLAIN", EventType("PLAIN"))
}

func TestDecodeMessagePrefersHeaders(t *testing.T) {
	h := nats.Header{}
	h.Set(headerEventType, "USER_REGISTERED")
	h.Set(headerOccurredAt, "2026-01-02T03:04:05Z")

	evt, err := decodeMessage("events.OTHER", h, []byte(`{"user_id":"u1"}`))

	require.NoError(t, err)
	assert.Equal(t, "USER_REGISTERED", evt.EventType())
	assert.Equal(t, "u1", evt.Payload()["user_id"])
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), evt.Timestamp())
}

func TestDecodeMessageFallsBackToSubject(t *testing.T) {
	evt, err := decodeMessage("events.CONTRACT_FAILED", nats.Header{}, []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, "CONTRACT_FAILED", evt.EventType())
}

func TestDecodeMessageRejectsInvalidJSON(t *testing.T) {
	_, err := decodeMessage("events.X", nats.Header{}, []byte(`not json`))
	assert.Error(t, err)
}
