package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeUserRegistered        = "USER_REGISTERED"
	TypeContractReady         = "CONTRACT_READY"
	TypeContractFailed        = "CONTRACT_FAILED"
	TypeContactMessageCreated = "CONTACT_MESSAGE_CREATED"
	TypeSystemBroadcast       = "SYSTEM_BROADCAST"
)

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func UserRegistered(userID uuid.UUID, username, email string) BaseEvent {
	return newEvent(TypeUserRegistered, map[string]interface{}{
		"user_id":     userID.String(),
		"username":    username,
		"email":       email,
		"entity_type": "user",
		"entity_id":   userID.String(),
	})
}

// ContractReady is emitted once a contract's text is extracted and its
// corpus embedded.
func ContractReady(userID, contractID uuid.UUID, fileName string, pageCount, units int) BaseEvent {
	return newEvent(TypeContractReady, map[string]interface{}{
		"user_id":     userID.String(),
		"file_name":   fileName,
		"page_count":  pageCount,
		"units":       units,
		"entity_type": "contract",
		"entity_id":   contractID.String(),
	})
}

func ContractFailed(userID, contractID uuid.UUID, fileName, reason string) BaseEvent {
	return newEvent(TypeContractFailed, map[string]interface{}{
		"user_id":     userID.String(),
		"file_name":   fileName,
		"reason":      reason,
		"entity_type": "contract",
		"entity_id":   contractID.String(),
	})
}

func ContactMessageCreated(userID, messageID uuid.UUID, fullName, email string) BaseEvent {
	return newEvent(TypeContactMessageCreated, map[string]interface{}{
		"user_id":     userID.String(),
		"actor_id":    userID.String(),
		"full_name":   fullName,
		"email":       email,
		"entity_type": "contact_message",
		"entity_id":   messageID.String(),
	})
}

func SystemBroadcast(title, message string) BaseEvent {
	return newEvent(TypeSystemBroadcast, map[string]interface{}{
		"title":   title,
		"message": message,
	})
}
