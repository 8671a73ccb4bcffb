package service

import (
	"context"
	"testing"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractFixture struct {
	store *store
	blobs *fakeBlobs
	jobs  *fakeJobs
	cache *fakeCorpusCache
	svc   IContractService
	user  *entity.User
}

func newContractFixture(t *testing.T) *contractFixture {
	t.Helper()
	f := &contractFixture{
		store: newStore(),
		blobs: newFakeBlobs(),
		jobs:  &fakeJobs{},
		cache: &fakeCorpusCache{},
	}
	f.user = &entity.User{Id: uuid.New(), Username: "kunde", Status: entity.UserStatusActive}
	f.store.users[f.user.Id] = f.user
	f.svc = NewContractService(fakeFactory{f.store}, f.blobs, f.jobs, f.cache, 1024, logger.NewNopLogger())
	return f
}

func (f *contractFixture) upload(t *testing.T, name string, data string) (*dto.ContractResponse, error) {
	t.Helper()
	return f.svc.Upload(context.Background(), uuid.New(), &dto.UploadContractRequest{
		UserId:   f.user.Id,
		FileName: name,
		Data:     []byte(data),
	})
}

func TestUploadStoresContractAndQueuesJob(t *testing.T) {
	f := newContractFixture(t)

	res, err := f.upload(t, "vertrag.pdf", "%PDF-1.4 body")
	require.NoError(t, err)
	assert.Equal(t, string(entity.ContractStatusUploaded), res.Status)
	assert.Equal(t, int64(len("%PDF-1.4 body")), res.FileSize)

	require.Len(t, f.jobs.payloads, 1)
	stored := f.store.contracts[res.Id]
	require.NotNil(t, stored)
	assert.Equal(t, dto.ContractJobMessage{ContractId: res.Id, FileURL: stored.FileURL}, f.jobs.payloads[0])
	assert.Len(t, f.blobs.objects, 1)
}

func TestUploadValidatesFile(t *testing.T) {
	f := newContractFixture(t)

	_, err := f.upload(t, "vertrag.pdf", "not a pdf")
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, err = f.upload(t, "vertrag.txt", "%PDF-1.4")
	assert.ErrorIs(t, err, ErrInvalidFile)

	big := make([]byte, 2048)
	copy(big, "%PDF-")
	_, err = f.upload(t, "vertrag.pdf", string(big))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.svc.Upload(context.Background(), uuid.New(), &dto.UploadContractRequest{
		UserId: uuid.New(), FileName: "x.pdf", Data: []byte("%PDF-1.4"),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.jobs.payloads)
}

func TestUploadReplacesExistingContract(t *testing.T) {
	f := newContractFixture(t)

	first, err := f.upload(t, "alt.pdf", "%PDF-1.4 alt")
	require.NoError(t, err)
	second, err := f.upload(t, "neu.PDF", "%PDF-1.7 neu")
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Len(t, f.store.contracts, 1)
	assert.Equal(t, "neu.PDF", f.store.contracts[first.Id].FileName)
	assert.Len(t, f.blobs.objects, 1)
	assert.Len(t, f.blobs.deleted, 1)
	assert.Equal(t, []uuid.UUID{first.Id}, f.cache.invalidated)
}

func TestDeleteContract(t *testing.T) {
	f := newContractFixture(t)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.user.Id), ErrContractNotFound)

	res, err := f.upload(t, "vertrag.pdf", "%PDF-1.4")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.user.Id))
	assert.Empty(t, f.store.contracts)
	assert.Empty(t, f.blobs.objects)
	assert.Contains(t, f.cache.invalidated, res.Id)

	_, err = f.svc.GetForUser(context.Background(), f.user.Id)
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestGetTextReturnsStoredText(t *testing.T) {
	f := newContractFixture(t)
	res, err := f.upload(t, "vertrag.pdf", "%PDF-1.4")
	require.NoError(t, err)
	f.store.contracts[res.Id].TextContent = "Leistungen"

	text, err := f.svc.GetText(context.Background(), f.user.Id)
	require.NoError(t, err)
	assert.Equal(t, "Leistungen", text.TextContent)
}
