// FILE: internal/service/contract_service.go
package service

import (
	"bytes"
	"context"
	"strings"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IContractService interface {
	Upload(ctx context.Context, adminId uuid.UUID, req *dto.UploadContractRequest) (*dto.ContractResponse, error)
	Delete(ctx context.Context, userId uuid.UUID) error
	GetForUser(ctx context.Context, userId uuid.UUID) (*dto.ContractResponse, error)
	GetText(ctx context.Context, userId uuid.UUID) (*dto.ContractTextResponse, error)
}

// ContractBlobStore persists the uploaded PDF files.
type ContractBlobStore interface {
	Save(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (string, error)
	Download(ctx context.Context, objectURL string) ([]byte, error)
	Delete(ctx context.Context, objectURL string) error
}

type contractService struct {
	uowFactory       unitofwork.RepositoryFactory
	blobs            ContractBlobStore
	publisherService IPublisherService
	corpusCache      ContractCorpusCache
	maxUploadBytes   int64
	logger           logger.ILogger
}

func NewContractService(
	uowFactory unitofwork.RepositoryFactory,
	blobs ContractBlobStore,
	publisherService IPublisherService,
	corpusCache ContractCorpusCache,
	maxUploadBytes int64,
	log logger.ILogger,
) IContractService {
	return &contractService{
		uowFactory:       uowFactory,
		blobs:            blobs,
		publisherService: publisherService,
		corpusCache:      corpusCache,
		maxUploadBytes:   maxUploadBytes,
		logger:           log,
	}
}

var pdfMagic = []byte("%PDF-")

// Upload stores the PDF as the user's only contract, replacing an earlier
// one, and queues text extraction.
func (s *contractService) Upload(ctx context.Context, adminId uuid.UUID, req *dto.UploadContractRequest) (*dto.ContractResponse, error) {
	if s.maxUploadBytes > 0 && int64(len(req.Data)) > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}
	if !bytes.HasPrefix(req.Data, pdfMagic) || !strings.EqualFold(extension(req.FileName), ".pdf") {
		return nil, ErrInvalidFile
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := uow.ContractRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	if err != nil {
		return nil, err
	}

	fileURL, err := s.blobs.Save(ctx, user.Id, req.FileName, req.Data)
	if err != nil {
		return nil, err
	}

	c := &entity.UserContract{
		Id:         uuid.New(),
		UserId:     user.Id,
		FileURL:    fileURL,
		FileName:   req.FileName,
		FileSize:   int64(len(req.Data)),
		EmptyPages: []int{},
		Status:     entity.ContractStatusUploaded,
		UploadedBy: &adminId,
	}

	var oldURL string
	if existing != nil {
		oldURL = existing.FileURL
		c.Id = existing.Id
		c.CreatedAt = existing.CreatedAt
		s.corpusCache.Invalidate(ctx, existing.Id)
		err = uow.ContractRepository().Update(ctx, c)
	} else {
		err = uow.ContractRepository().Create(ctx, c)
	}
	if err != nil {
		_ = s.blobs.Delete(ctx, fileURL)
		return nil, err
	}

	if oldURL != "" && oldURL != fileURL {
		if err := s.blobs.Delete(ctx, oldURL); err != nil {
			s.logger.Warn("CONTRACT", "Failed to delete replaced contract file", map[string]interface{}{
				"contract_id": c.Id,
				"file_url":    oldURL,
				"error":       err.Error(),
			})
		}
	}

	if err := s.publisherService.SendMessage(ctx, dto.ContractJobMessage{ContractId: c.Id, FileURL: c.FileURL}); err != nil {
		// text is still extracted lazily on the first question
		s.logger.Error("CONTRACT", "Failed to queue contract processing", map[string]interface{}{
			"contract_id": c.Id,
			"error":       err.Error(),
		})
	}

	s.logger.Info("CONTRACT", "Contract uploaded", map[string]interface{}{
		"contract_id": c.Id,
		"user_id":     user.Id,
		"file_size":   c.FileSize,
		"replaced":    existing != nil,
	})
	return toContractResponse(c), nil
}

func (s *contractService) Delete(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := uow.ContractRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return err
	}
	if c == nil {
		return ErrContractNotFound
	}

	s.corpusCache.Invalidate(ctx, c.Id)
	if err := uow.ContractRepository().Delete(ctx, c.Id); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, c.FileURL); err != nil {
		s.logger.Warn("CONTRACT", "Failed to delete contract file", map[string]interface{}{
			"contract_id": c.Id,
			"error":       err.Error(),
		})
	}
	return nil
}

func (s *contractService) GetForUser(ctx context.Context, userId uuid.UUID) (*dto.ContractResponse, error) {
	c, err := s.find(ctx, userId)
	if err != nil {
		return nil, err
	}
	return toContractResponse(c), nil
}

func (s *contractService) GetText(ctx context.Context, userId uuid.UUID) (*dto.ContractTextResponse, error) {
	c, err := s.find(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.ContractTextResponse{Id: c.Id, TextContent: c.TextContent}, nil
}

func (s *contractService) find(ctx context.Context, userId uuid.UUID) (*entity.UserContract, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := uow.ContractRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContractNotFound
	}
	return c, nil
}

func extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
