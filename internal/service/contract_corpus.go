package service

import (
	"context"
	"strings"

	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/pkg/contractqa"

	"github.com/google/uuid"
)

// contractDocumentStore exposes user contracts to the question pipeline.
type contractDocumentStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewContractDocumentStore(uowFactory unitofwork.RepositoryFactory) contractqa.DocumentStore {
	return &contractDocumentStore{uowFactory: uowFactory}
}

func (s *contractDocumentStore) FindForUser(ctx context.Context, userID uuid.UUID) (*contractqa.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := uow.ContractRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil || c == nil {
		return nil, err
	}
	return &contractqa.Document{
		ID:          c.Id,
		UserID:      c.UserId,
		FileURL:     c.FileURL,
		TextContent: c.TextContent,
	}, nil
}

func (s *contractDocumentStore) SaveText(ctx context.Context, doc *contractqa.Document, text string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	_, err := uow.ContractRepository().UpdateText(ctx, doc.ID, doc.FileURL, text)
	return err
}

// ContractCorpusCache is a corpus cache that can forget a contract.
type ContractCorpusCache interface {
	contractqa.CorpusCache
	Invalidate(ctx context.Context, documentID uuid.UUID)
}

// MemoryCorpusCache is the in-process tier.
type MemoryCorpusCache interface {
	contractqa.CorpusCache
	Invalidate(documentID uuid.UUID)
}

// persistentCorpusCache keeps corpora in memory and, when enabled, in the
// contract_embeddings table so a restart does not re-encode every contract.
type persistentCorpusCache struct {
	memory     MemoryCorpusCache
	uowFactory unitofwork.RepositoryFactory
	persist    bool
	logger     logger.ILogger
}

func NewContractCorpusCache(memory MemoryCorpusCache, uowFactory unitofwork.RepositoryFactory, persist bool, log logger.ILogger) ContractCorpusCache {
	return &persistentCorpusCache{
		memory:     memory,
		uowFactory: uowFactory,
		persist:    persist,
		logger:     log,
	}
}

func (c *persistentCorpusCache) Get(ctx context.Context, key string) (*contractqa.Corpus, bool) {
	if corpus, ok := c.memory.Get(ctx, key); ok {
		return corpus, true
	}
	if !c.persist {
		return nil, false
	}

	documentID, ok := documentIDFromKey(key)
	if !ok {
		return nil, false
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ContractEmbeddingRepository().FindByCacheKey(ctx, documentID, key)
	if err != nil {
		c.logger.Warn("CORPUS_CACHE", "Failed to read stored embeddings", map[string]interface{}{
			"contract_id": documentID,
			"error":       err.Error(),
		})
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}

	corpus := &contractqa.Corpus{
		Units:   make([]string, len(rows)),
		Vectors: make([][]float32, len(rows)),
	}
	for i, row := range rows {
		// rows come ordered by unit index; a gap means a partial write
		if row.UnitIndex != i {
			return nil, false
		}
		corpus.Units[i] = row.Content
		corpus.Vectors[i] = row.Embedding
	}

	c.memory.Put(ctx, key, documentID, corpus)
	return corpus, true
}

func (c *persistentCorpusCache) Put(ctx context.Context, key string, documentID uuid.UUID, corpus *contractqa.Corpus) {
	c.memory.Put(ctx, key, documentID, corpus)
	if !c.persist {
		return
	}

	model := modelFromKey(key)

	rows := make([]*entity.ContractEmbedding, len(corpus.Units))
	for i, unit := range corpus.Units {
		rows[i] = &entity.ContractEmbedding{
			ContractId: documentID,
			CacheKey:   key,
			Model:      model,
			UnitIndex:  i,
			Content:    unit,
			Embedding:  corpus.Vectors[i],
		}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ContractEmbeddingRepository().ReplaceForContract(ctx, documentID, rows); err != nil {
		c.logger.Warn("CORPUS_CACHE", "Failed to store embeddings", map[string]interface{}{
			"contract_id": documentID,
			"units":       len(rows),
			"error":       err.Error(),
		})
	}
}

func (c *persistentCorpusCache) Invalidate(ctx context.Context, documentID uuid.UUID) {
	c.memory.Invalidate(documentID)
	if !c.persist {
		return
	}
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ContractEmbeddingRepository().DeleteByContract(ctx, documentID); err != nil {
		c.logger.Warn("CORPUS_CACHE", "Failed to delete stored embeddings", map[string]interface{}{
			"contract_id": documentID,
			"error":       err.Error(),
		})
	}
}

func documentIDFromKey(key string) (uuid.UUID, bool) {
	i := strings.IndexByte(key, ':')
	if i < 0 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(key[:i])
	return id, err == nil
}

// modelFromKey returns the part between the contract id and the text hash.
// Model names may themselves contain colons.
func modelFromKey(key string) string {
	i, j := strings.IndexByte(key, ':'), strings.LastIndexByte(key, ':')
	if i < 0 || j <= i {
		return ""
	}
	return key[i+1 : j]
}
