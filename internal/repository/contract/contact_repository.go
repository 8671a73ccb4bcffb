package contract

import (
	"context"

	"pkv-backend/internal/entity"
	"pkv-backend/internal/repository/specification"
)

type ContactMessageRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContactMessage, error)
}
