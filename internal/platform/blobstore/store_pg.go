package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGBlobStore stores attachment content inline in Postgres. Attachments are
// capped at MaxFileSize, so a bytea column is simpler than a separate object
// store.
type PGBlobStore struct {
	pool *pgxpool.Pool
}

func NewPGBlobStore(pool *pgxpool.Pool) *PGBlobStore {
	return &PGBlobStore{pool: pool}
}

const metaCols = `id, file_name, content_type, size, owner_type, owner_id, hash, created_at`

func (s *PGBlobStore) Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	if err := validateMeta(&meta); err != nil {
		return nil, err
	}
	data, err := readAll(&meta, content)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO attachment (id, file_name, content_type, size, owner_type, owner_id, hash, content, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		meta.ID, meta.FileName, meta.ContentType, meta.Size, meta.OwnerType, meta.OwnerID, meta.Hash, data, meta.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	out := meta // copy
	return &out, nil
}

func (s *PGBlobStore) Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	meta := &BlobMetadata{}
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT `+metaCols+`, content FROM attachment WHERE id = $1`, id).
		Scan(&meta.ID, &meta.FileName, &meta.ContentType, &meta.Size,
			&meta.OwnerType, &meta.OwnerID, &meta.Hash, &meta.CreatedAt, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), meta, nil
}

func (s *PGBlobStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM attachment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlobNotFound
	}
	return nil
}

func (s *PGBlobStore) GetMetadata(ctx context.Context, id string) (*BlobMetadata, error) {
	meta := &BlobMetadata{}
	err := s.pool.QueryRow(ctx, `SELECT `+metaCols+` FROM attachment WHERE id = $1`, id).
		Scan(&meta.ID, &meta.FileName, &meta.ContentType, &meta.Size,
			&meta.OwnerType, &meta.OwnerID, &meta.Hash, &meta.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *PGBlobStore) ListByOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]*BlobMetadata, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+metaCols+` FROM attachment
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY created_at DESC`, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []*BlobMetadata
	for rows.Next() {
		meta := &BlobMetadata{}
		if err := rows.Scan(&meta.ID, &meta.FileName, &meta.ContentType, &meta.Size,
			&meta.OwnerType, &meta.OwnerID, &meta.Hash, &meta.CreatedAt); err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

var _ BlobStore = (*PGBlobStore)(nil)
