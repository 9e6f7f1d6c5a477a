package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bucketName = "uploads"

// GridFSStore keeps files in a MongoDB GridFS bucket
type GridFSStore struct {
	bucket *gridfs.Bucket
}

// NewGridFSStore opens the uploads bucket in db
func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

// Save uploads r under name
func (s *GridFSStore) Save(_ context.Context, name string, r io.Reader) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if _, err := s.bucket.UploadFromStream(name, r); err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// Open opens the most recent revision of name
func (s *GridFSStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stream, nil
}
