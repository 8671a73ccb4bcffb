package implementation

import (
	"context"
	"errors"
	"time"

	"pkv-backend/internal/entity"
	"pkv-backend/internal/mapper"
	"pkv-backend/internal/model"
	"pkv-backend/internal/repository/contract"
	"pkv-backend/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContractRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContractMapper
}

func NewContractRepository(db *gorm.DB) contract.ContractRepository {
	return &ContractRepositoryImpl{
		db:     db,
		mapper: mapper.NewContractMapper(),
	}
}

func (r *ContractRepositoryImpl) Create(ctx context.Context, c *entity.UserContract) error {
	m := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContractRepositoryImpl) Update(ctx context.Context, c *entity.UserContract) error {
	m := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Omit("User").Save(m).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContractRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserContract, error) {
	var m model.UserContract
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContractRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UserContract{}, "id = ?", id).Error
}

func (r *ContractRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, fileURL string, status entity.ContractStatus, processingError *string) (bool, error) {
	return r.updateCurrent(ctx, id, fileURL, map[string]interface{}{
		"status":           string(status),
		"processing_error": processingError,
	})
}

func (r *ContractRepositoryImpl) UpdateText(ctx context.Context, id uuid.UUID, fileURL string, text string) (bool, error) {
	return r.updateCurrent(ctx, id, fileURL, map[string]interface{}{"text_content": text})
}

func (r *ContractRepositoryImpl) MarkProcessed(ctx context.Context, id uuid.UUID, fileURL string, text string, pageCount int, emptyPages []int) (bool, error) {
	return r.updateCurrent(ctx, id, fileURL, map[string]interface{}{
		"text_content":     text,
		"page_count":       pageCount,
		"empty_pages":      datatypes.NewJSONSlice(emptyPages),
		"status":           string(entity.ContractStatusReady),
		"processing_error": nil,
		"processed_at":     time.Now(),
	})
}

// updateCurrent applies values only while the row still references fileURL.
func (r *ContractRepositoryImpl) updateCurrent(ctx context.Context, id uuid.UUID, fileURL string, values map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.UserContract{}).
		Where("id = ? AND file_url = ?", id, fileURL).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type ContractEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContractMapper
}

func NewContractEmbeddingRepository(db *gorm.DB) contract.ContractEmbeddingRepository {
	return &ContractEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewContractMapper(),
	}
}

func (r *ContractEmbeddingRepositoryImpl) FindByCacheKey(ctx context.Context, contractId uuid.UUID, cacheKey string) ([]*entity.ContractEmbedding, error) {
	var rows []*model.ContractEmbedding
	err := r.db.WithContext(ctx).
		Where("contract_id = ? AND cache_key = ?", contractId, cacheKey).
		Order("unit_index ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.EmbeddingsToEntities(rows), nil
}

func (r *ContractEmbeddingRepositoryImpl) ReplaceForContract(ctx context.Context, contractId uuid.UUID, rows []*entity.ContractEmbedding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", contractId).Delete(&model.ContractEmbedding{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		models := make([]*model.ContractEmbedding, len(rows))
		for i, row := range rows {
			models[i] = r.mapper.EmbeddingToModel(row)
			models[i].ContractId = contractId
		}
		return tx.CreateInBatches(models, 100).Error
	})
}

func (r *ContractEmbeddingRepositoryImpl) DeleteByContract(ctx context.Context, contractId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("contract_id = ?", contractId).Delete(&model.ContractEmbedding{}).Error
}
