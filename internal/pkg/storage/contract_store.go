package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ContractStore keeps uploaded contract PDFs under a base URL. Any scheme
// afs understands works (file://, mem://, gs://, s3://).
type ContractStore struct {
	fs      afs.Service
	baseURL string
}

func NewContractStore(baseURL string) *ContractStore {
	return &ContractStore{
		fs:      afs.New(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save writes data below the user's folder and returns the object URL.
func (s *ContractStore) Save(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (string, error) {
	objectURL := url.Join(s.baseURL, path.Join(userID.String(), uuid.NewString()+"_"+SafeFileName(fileName)))
	if err := s.fs.Upload(ctx, objectURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectURL, err)
	}
	return objectURL, nil
}

func (s *ContractStore) Download(ctx context.Context, objectURL string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, objectURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", objectURL, err)
	}
	return data, nil
}

// Delete removes the object; a missing object is not an error.
func (s *ContractStore) Delete(ctx context.Context, objectURL string) error {
	exists, err := s.fs.Exists(ctx, objectURL)
	if err != nil || !exists {
		return err
	}
	return s.fs.Delete(ctx, objectURL)
}

// SafeFileName reduces an uploaded name to a portable object name.
func SafeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "contract.pdf"
	}
	return name
}
