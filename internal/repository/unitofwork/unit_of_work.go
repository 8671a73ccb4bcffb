package unitofwork

import (
	"context"

	"pkv-backend/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	InsuranceRepository() contract.InsuranceRepository
	ContractRepository() contract.ContractRepository
	ContractEmbeddingRepository() contract.ContractEmbeddingRepository
	ContactMessageRepository() contract.ContactMessageRepository
}
