package entity

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusUploaded   ContractStatus = "uploaded"
	ContractStatusProcessing ContractStatus = "processing"
	ContractStatusReady      ContractStatus = "ready"
	ContractStatusFailed     ContractStatus = "failed"
)

type UserContract struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	FileURL         string
	FileName        string
	FileSize        int64
	TextContent     string
	EmptyPages      []int
	PageCount       int
	Status          ContractStatus
	ProcessingError *string
	ProcessedAt     *time.Time
	UploadedBy      *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ContractEmbedding struct {
	Id         uuid.UUID
	ContractId uuid.UUID
	CacheKey   string
	Model      string
	UnitIndex  int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}
