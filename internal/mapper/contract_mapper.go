package mapper

import (
	"pkv-backend/internal/entity"
	"pkv-backend/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContractMapper struct{}

func NewContractMapper() *ContractMapper {
	return &ContractMapper{}
}

func (m *ContractMapper) ToEntity(c *model.UserContract) *entity.UserContract {
	if c == nil {
		return nil
	}
	return &entity.UserContract{
		Id:              c.Id,
		UserId:          c.UserId,
		FileURL:         c.FileURL,
		FileName:        c.FileName,
		FileSize:        c.FileSize,
		TextContent:     c.TextContent,
		EmptyPages:      []int(c.EmptyPages),
		PageCount:       c.PageCount,
		Status:          entity.ContractStatus(c.Status),
		ProcessingError: c.ProcessingError,
		ProcessedAt:     c.ProcessedAt,
		UploadedBy:      c.UploadedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ContractMapper) ToModel(c *entity.UserContract) *model.UserContract {
	if c == nil {
		return nil
	}
	return &model.UserContract{
		Id:              c.Id,
		UserId:          c.UserId,
		FileURL:         c.FileURL,
		FileName:        c.FileName,
		FileSize:        c.FileSize,
		TextContent:     c.TextContent,
		EmptyPages:      datatypes.JSONSlice[int](c.EmptyPages),
		PageCount:       c.PageCount,
		Status:          string(c.Status),
		ProcessingError: c.ProcessingError,
		ProcessedAt:     c.ProcessedAt,
		UploadedBy:      c.UploadedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ContractMapper) EmbeddingToEntity(e *model.ContractEmbedding) *entity.ContractEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ContractEmbedding{
		Id:         e.Id,
		ContractId: e.ContractId,
		CacheKey:   e.CacheKey,
		Model:      e.Model,
		UnitIndex:  e.UnitIndex,
		Content:    e.Content,
		Embedding:  e.EmbeddingValue.Slice(),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ContractMapper) EmbeddingToModel(e *entity.ContractEmbedding) *model.ContractEmbedding {
	if e == nil {
		return nil
	}
	return &model.ContractEmbedding{
		Id:             e.Id,
		ContractId:     e.ContractId,
		CacheKey:       e.CacheKey,
		Model:          e.Model,
		UnitIndex:      e.UnitIndex,
		Content:        e.Content,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ContractMapper) EmbeddingsToEntities(rows []*model.ContractEmbedding) []*entity.ContractEmbedding {
	entities := make([]*entity.ContractEmbedding, len(rows))
	for i, r := range rows {
		entities[i] = m.EmbeddingToEntity(r)
	}
	return entities
}
