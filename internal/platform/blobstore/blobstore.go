// Package blobstore stores file attachments for medical records. It defines
// the BlobStore interface, an in-memory implementation for tests and
// development, a Postgres implementation, and Echo HTTP handlers for
// multipart upload, download, metadata retrieval, listing, and deletion.
//
// Every attachment is owned by exactly one record — a diagnosis or a visit —
// identified by the (OwnerType, OwnerID) pair.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlobNotFound       = errors.New("blob not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrInvalidOwner       = errors.New("owner type must be diagnosis or visit")
	ErrMissingFileName    = errors.New("file name is required")
)

// MaxFileSize is the maximum allowed attachment size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// Owner types an attachment can be linked to.
const (
	OwnerDiagnosis = "diagnosis"
	OwnerVisit     = "visit"
)

// AllowedContentTypes lists the document and image MIME types accepted for
// upload.
var AllowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"image/gif":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// BlobMetadata describes a stored attachment.
type BlobMetadata struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	OwnerType   string    `json:"ownerType"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BlobStore defines the contract for attachment storage backends.
type BlobStore interface {
	Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error)
	Delete(ctx context.Context, id string) error
	GetMetadata(ctx context.Context, id string) (*BlobMetadata, error)
	ListByOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]*BlobMetadata, error)
}

// validateMeta enforces the invariants shared by every backend.
func validateMeta(meta *BlobMetadata) error {
	if meta.FileName == "" {
		return ErrMissingFileName
	}
	if meta.OwnerType != OwnerDiagnosis && meta.OwnerType != OwnerVisit {
		return ErrInvalidOwner
	}
	if meta.OwnerID == uuid.Nil {
		return ErrInvalidOwner
	}
	if !AllowedContentTypes[meta.ContentType] {
		return ErrInvalidContentType
	}
	return nil
}

// readAll reads the content, enforcing MaxFileSize, and fills in the derived
// metadata fields.
func readAll(meta *BlobMetadata, content io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)
	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()
	return data, nil
}

type storedBlob struct {
	metadata BlobMetadata
	content  []byte
}

// InMemoryBlobStore is a thread-safe, in-memory BlobStore for testing/dev.
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]*storedBlob
}

// NewInMemoryBlobStore returns a ready-to-use InMemoryBlobStore.
func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{
		blobs: make(map[string]*storedBlob),
	}
}

func (s *InMemoryBlobStore) Upload(_ context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	if err := validateMeta(&meta); err != nil {
		return nil, err
	}
	data, err := readAll(&meta, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.blobs[meta.ID] = &storedBlob{metadata: meta, content: data}
	s.mu.Unlock()

	out := meta // copy
	return &out, nil
}

func (s *InMemoryBlobStore) Download(_ context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	s.mu.RLock()
	blob, ok := s.blobs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrBlobNotFound
	}

	meta := blob.metadata // copy
	return io.NopCloser(bytes.NewReader(blob.content)), &meta, nil
}

func (s *InMemoryBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[id]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, id)
	return nil
}

func (s *InMemoryBlobStore) GetMetadata(_ context.Context, id string) (*BlobMetadata, error) {
	s.mu.RLock()
	blob, ok := s.blobs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrBlobNotFound
	}

	meta := blob.metadata // copy
	return &meta, nil
}

func (s *InMemoryBlobStore) ListByOwner(_ context.Context, ownerType string, ownerID uuid.UUID) ([]*BlobMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*BlobMetadata
	for _, b := range s.blobs {
		if b.metadata.OwnerType != ownerType || b.metadata.OwnerID != ownerID {
			continue
		}
		m := b.metadata // copy
		matched = append(matched, &m)
	}
	return matched, nil
}
