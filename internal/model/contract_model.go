package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type UserContract struct {
	Id              uuid.UUID                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex"`
	FileURL         string                   `gorm:"type:text;not null"`
	FileName        string                   `gorm:"type:varchar(255);not null"`
	FileSize        int64                    `gorm:"not null;default:0"`
	TextContent     string                   `gorm:"type:text"`
	EmptyPages      datatypes.JSONSlice[int] `gorm:"type:jsonb"`
	PageCount       int                      `gorm:"default:0"`
	Status          string                   `gorm:"type:varchar(20);not null;default:'uploaded'"`
	ProcessingError *string                  `gorm:"type:text"`
	ProcessedAt     *time.Time
	UploadedBy      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (UserContract) TableName() string {
	return "user_contracts"
}

// ContractEmbedding stores one encoded paragraph of a contract. Rows are
// grouped by CacheKey, which changes whenever the text or the model changes.
type ContractEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContractId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CacheKey       string          `gorm:"type:varchar(255);not null;index"`
	Model          string          `gorm:"type:varchar(255);not null"`
	UnitIndex      int             `gorm:"not null"`
	Content        string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector"` // dimension depends on the configured model
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (ContractEmbedding) TableName() string {
	return "contract_embeddings"
}
