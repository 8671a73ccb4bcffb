package entity

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}
