// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/pkg/contractqa"
	"pkv-backend/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	ProcessContract(ctx context.Context, job dto.ContractJobMessage) error
}

type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	extractor      contractqa.Extractor
	encoder        contractqa.Encoder
	corpusCache    contractqa.CorpusCache
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	extractor contractqa.Extractor,
	encoder contractqa.Encoder,
	corpusCache contractqa.CorpusCache,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		uowFactory:     uowFactory,
		extractor:      extractor,
		encoder:        encoder,
		corpusCache:    corpusCache,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ContractJobMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal contract job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // poison message, retrying cannot help
		return
	}

	if err := cs.ProcessContract(ctx, payload); err != nil {
		cs.logger.Error("CONSUMER", "Contract processing failed", map[string]interface{}{
			"contract_id": payload.ContractId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

// ProcessContract extracts the contract text and warms the corpus cache.
// Extraction failures mark the contract failed and are not retried; only
// storage errors are returned. A job whose file was replaced by a later
// upload is dropped without touching the contract.
func (cs *consumerService) ProcessContract(ctx context.Context, job dto.ContractJobMessage) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ContractRepository()

	c, err := repo.FindOne(ctx, specification.ByID{ID: job.ContractId})
	if err != nil {
		return err
	}
	if c == nil {
		cs.logger.Warn("CONSUMER", "Contract vanished before processing", map[string]interface{}{"contract_id": job.ContractId})
		return nil
	}
	if job.FileURL != "" && job.FileURL != c.FileURL {
		cs.logSuperseded(c.Id, job.FileURL)
		return nil
	}

	applied, err := repo.UpdateStatus(ctx, c.Id, c.FileURL, entity.ContractStatusProcessing, nil)
	if err != nil {
		return err
	}
	if !applied {
		cs.logSuperseded(c.Id, c.FileURL)
		return nil
	}

	doc := &contractqa.Document{ID: c.Id, UserID: c.UserId, FileURL: c.FileURL}
	pages, err := cs.extractor.ExtractPages(ctx, doc)
	if err != nil {
		reason := err.Error()
		cs.logger.Error("CONSUMER", "Contract text extraction failed", map[string]interface{}{
			"contract_id": c.Id,
			"error":       reason,
		})
		applied, err := repo.UpdateStatus(ctx, c.Id, c.FileURL, entity.ContractStatusFailed, &reason)
		if err != nil {
			return err
		}
		if !applied {
			cs.logSuperseded(c.Id, c.FileURL)
			return nil
		}
		publishEvent(ctx, cs.eventPublisher, cs.logger, events.ContractFailed(c.UserId, c.Id, c.FileName, "text extraction failed"))
		return nil
	}

	emptyPages := contractqa.EmptyPages(pages)
	for _, n := range emptyPages {
		cs.logger.Warn("CONSUMER", "No text on page", map[string]interface{}{"contract_id": c.Id, "page": n})
	}

	text := strings.Join(pages, "\n")
	applied, err = repo.MarkProcessed(ctx, c.Id, c.FileURL, text, len(pages), emptyPages)
	if err != nil {
		return err
	}
	if !applied {
		cs.logSuperseded(c.Id, c.FileURL)
		return nil
	}

	units := cs.warmCorpus(ctx, c.Id, text)
	publishEvent(ctx, cs.eventPublisher, cs.logger, events.ContractReady(c.UserId, c.Id, c.FileName, len(pages), units))

	cs.logger.Info("CONSUMER", "Contract processed", map[string]interface{}{
		"contract_id": c.Id,
		"pages":       len(pages),
		"empty_pages": len(emptyPages),
		"units":       units,
	})
	return nil
}

// warmCorpus embeds the contract ahead of the first question. Failure is
// not fatal: the question pipeline builds the corpus on demand.
func (cs *consumerService) warmCorpus(ctx context.Context, contractId uuid.UUID, text string) int {
	corpus, err := contractqa.BuildCorpus(ctx, cs.encoder, text)
	if err != nil {
		if !errors.Is(err, contractqa.ErrEmptyCorpus) {
			cs.logger.Warn("CONSUMER", "Failed to pre-compute contract embeddings", map[string]interface{}{
				"contract_id": contractId,
				"model":       cs.encoder.Model(),
				"error":       err.Error(),
			})
		}
		return 0
	}
	cs.corpusCache.Put(ctx, contractqa.CorpusKey(contractId, cs.encoder.Model(), text), contractId, corpus)
	return len(corpus.Units)
}

func (cs *consumerService) logSuperseded(contractId uuid.UUID, fileURL string) {
	cs.logger.Info("CONSUMER", "Contract job superseded by a newer upload", map[string]interface{}{
		"contract_id": contractId,
		"file_url":    fileURL,
	})
}
