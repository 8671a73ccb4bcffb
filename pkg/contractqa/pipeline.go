// Package contractqa answers natural-language questions against a single
// user's contract by returning the paragraph closest to the question in
// embedding space.
package contractqa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/minio/highwayhash"
)

const DefaultMaxQuestionLength = 4000

// Document is the stored contract as the pipeline sees it.
type Document struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	FileURL     string
	TextContent string
}

// DocumentStore looks up the contract owned by a user.
type DocumentStore interface {
	// FindForUser returns nil, nil when the user has no contract.
	FindForUser(ctx context.Context, userID uuid.UUID) (*Document, error)
	// SaveText stores text extracted from doc's file. It is a no-op when the
	// document has since been replaced.
	SaveText(ctx context.Context, doc *Document, text string) error
}

// Encoder maps texts to embedding vectors, one per input, in input order.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
	Close() error
}

// Corpus is the segmented and embedded form of one contract text.
type Corpus struct {
	Units   []string
	Vectors [][]float32
}

// CorpusCache stores corpora keyed by CorpusKey.
type CorpusCache interface {
	Get(ctx context.Context, key string) (*Corpus, bool)
	Put(ctx context.Context, key string, documentID uuid.UUID, corpus *Corpus)
}

// Logger is the subset of the application logger used here.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

// Answer is the best matching paragraph for a question.
type Answer struct {
	Text      string
	UnitIndex int
	Score     float64
	Units     int
	Cached    bool
}

type Pipeline struct {
	store       DocumentStore
	extractor   Extractor
	encoder     Encoder
	cache       CorpusCache
	logger      Logger
	maxQuestion int
}

type Option func(*Pipeline)

// WithCache enables reuse of corpus embeddings across requests.
func WithCache(cache CorpusCache) Option {
	return func(p *Pipeline) { p.cache = cache }
}

func WithMaxQuestionLength(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxQuestion = n
		}
	}
}

func NewPipeline(store DocumentStore, extractor Extractor, encoder Encoder, logger Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:       store,
		extractor:   extractor,
		encoder:     encoder,
		logger:      logger,
		maxQuestion: DefaultMaxQuestionLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ValidateQuestion trims the question and enforces the length bound.
func (p *Pipeline) ValidateQuestion(question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", &ValidationError{Reason: "question is required"}
	}
	if utf8.RuneCountInString(q) > p.maxQuestion {
		return "", &ValidationError{Reason: fmt.Sprintf("question exceeds %d characters", p.maxQuestion)}
	}
	return q, nil
}

func (p *Pipeline) Answer(ctx context.Context, userID uuid.UUID, question string) (*Answer, error) {
	q, err := p.ValidateQuestion(question)
	if err != nil {
		return nil, err
	}

	doc, err := p.store.FindForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find contract: %w", err)
	}
	if doc == nil {
		return nil, ErrNoContract
	}

	text, err := p.documentText(ctx, doc)
	if err != nil {
		return nil, err
	}

	corpus, cached, err := p.corpus(ctx, doc, text)
	if err != nil {
		return nil, err
	}

	queryVectors, err := p.encoder.Encode(ctx, []string{q})
	if err != nil {
		return nil, &EncoderError{Model: p.encoder.Model(), Op: "query", Err: err}
	}
	if len(queryVectors) != 1 {
		return nil, &EncoderError{Model: p.encoder.Model(), Op: "query", Err: fmt.Errorf("expected 1 vector, got %d", len(queryVectors))}
	}

	idx, score, err := Rank(queryVectors[0], corpus.Vectors)
	if errors.Is(err, ErrDimensionMismatch) {
		return nil, &EncoderError{Model: p.encoder.Model(), Op: "query", Err: err}
	}
	if err != nil {
		return nil, err
	}

	return &Answer{
		Text:      corpus.Units[idx],
		UnitIndex: idx,
		Score:     score,
		Units:     len(corpus.Units),
		Cached:    cached,
	}, nil
}

func (p *Pipeline) documentText(ctx context.Context, doc *Document) (string, error) {
	if doc.TextContent != "" {
		return doc.TextContent, nil
	}

	text, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return "", err
	}

	if text != "" {
		if err := p.store.SaveText(ctx, doc, text); err != nil {
			p.logger.Warn("ContractQA", "Failed to persist extracted text", map[string]interface{}{
				"contract_id": doc.ID,
				"error":       err.Error(),
			})
		}
	}
	return text, nil
}

// corpus segments and embeds the text, consulting the cache first.
func (p *Pipeline) corpus(ctx context.Context, doc *Document, text string) (*Corpus, bool, error) {
	key := CorpusKey(doc.ID, p.encoder.Model(), text)
	if p.cache != nil {
		if c, ok := p.cache.Get(ctx, key); ok && len(c.Units) > 0 && len(c.Units) == len(c.Vectors) {
			return c, true, nil
		}
	}

	c, err := BuildCorpus(ctx, p.encoder, text)
	if err != nil {
		return nil, false, err
	}

	if p.cache != nil {
		p.cache.Put(ctx, key, doc.ID, c)
	}
	return c, false, nil
}

// BuildCorpus segments text and encodes every unit in one batch call.
func BuildCorpus(ctx context.Context, encoder Encoder, text string) (*Corpus, error) {
	units := Segment(text)
	if len(units) == 0 {
		return nil, ErrEmptyCorpus
	}

	vectors, err := encoder.Encode(ctx, units)
	if err != nil {
		return nil, &EncoderError{Model: encoder.Model(), Op: "corpus", Err: err}
	}
	if len(vectors) != len(units) {
		return nil, &EncoderError{Model: encoder.Model(), Op: "corpus", Err: fmt.Errorf("expected %d vectors, got %d", len(units), len(vectors))}
	}
	return &Corpus{Units: units, Vectors: vectors}, nil
}

var corpusHashKey = []byte("pkv-contract-corpus-cache-key-01")

// CorpusKey identifies a corpus by contract, embedding model and text content.
func CorpusKey(documentID uuid.UUID, model, text string) string {
	h, err := highwayhash.New64(corpusHashKey)
	if err != nil {
		// only fails for a key that is not 32 bytes long
		panic(err)
	}
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("%s:%s:%016x", documentID, model, h.Sum64())
}
