// FILE: internal/dto/contract_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadContractRequest struct {
	UserId   uuid.UUID
	FileName string
	Data     []byte
}

type ContractResponse struct {
	Id              uuid.UUID  `json:"id"`
	UserId          uuid.UUID  `json:"user_id"`
	FileName        string     `json:"file_name"`
	FileSize        int64      `json:"file_size"`
	PageCount       int        `json:"page_count"`
	EmptyPages      []int      `json:"empty_pages"`
	Status          string     `json:"status"`
	ProcessingError *string    `json:"processing_error,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ContractTextResponse struct {
	Id          uuid.UUID `json:"id"`
	TextContent string    `json:"text_content"`
}

type ContractQuestionRequest struct {
	Question string `json:"question"`
}

type ContractAnswerResponse struct {
	Answer    string  `json:"answer"`
	UnitIndex int     `json:"unit_index"`
	Score     float64 `json:"score"`
	Units     int     `json:"units"`
}

// ContractJobMessage is queued after an upload and consumed by the
// contract processing worker.
type ContractJobMessage struct {
	ContractId uuid.UUID `json:"contract_id"`
	// FileURL pins the job to one upload; a re-upload supersedes it.
	FileURL    string    `json:"file_url"`
}
