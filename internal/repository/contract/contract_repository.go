package contract

import (
	"context"

	"pkv-backend/internal/entity"
	"pkv-backend/internal/repository/specification"

	"github.com/google/uuid"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *entity.UserContract) error
	Update(ctx context.Context, contract *entity.UserContract) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserContract, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// The conditional updates below only touch the row while it still points
	// at fileURL; they report false when a re-upload replaced the file.
	UpdateStatus(ctx context.Context, id uuid.UUID, fileURL string, status entity.ContractStatus, processingError *string) (bool, error)
	UpdateText(ctx context.Context, id uuid.UUID, fileURL string, text string) (bool, error)
	// MarkProcessed stores the extraction result and flips the contract to ready.
	MarkProcessed(ctx context.Context, id uuid.UUID, fileURL string, text string, pageCount int, emptyPages []int) (bool, error)
}

type ContractEmbeddingRepository interface {
	FindByCacheKey(ctx context.Context, contractId uuid.UUID, cacheKey string) ([]*entity.ContractEmbedding, error)
	// ReplaceForContract drops every stored row of the contract and inserts rows.
	ReplaceForContract(ctx context.Context, contractId uuid.UUID, rows []*entity.ContractEmbedding) error
	DeleteByContract(ctx context.Context, contractId uuid.UUID) error
}
