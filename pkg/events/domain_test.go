package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContractReadyPayload(t *testing.T) {
	userID, contractID := uuid.New(), uuid.New()

	evt := ContractReady(userID, contractID, "vertrag.pdf", 12, 48)

	assert.Equal(t, TypeContractReady, evt.EventType())
	assert.Equal(t, userID.String(), evt.Payload()["user_id"])
	assert.Equal(t, contractID.String(), evt.Payload()["entity_id"])
	assert.Equal(t, "contract", evt.Payload()["entity_type"])
	assert.Equal(t, 48, evt.Payload()["units"])
	assert.False(t, evt.Timestamp().IsZero())
}

func TestContactMessageCreatedSetsActor(t *testing.T) {
	userID := uuid.New()

	evt := ContactMessageCreated(userID, uuid.New(), "Anna Schmidt", "anna@example.de")

	assert.Equal(t, userID.String(), evt.Payload()["actor_id"])
	assert.Equal(t, "Anna Schmidt", evt.Payload()["full_name"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), SystemBroadcast("t", "m")))
}
