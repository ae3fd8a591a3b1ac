package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"staysync/core/storage"
)

// Sink publishes a snapshot somewhere consumers can read it.
type Sink interface {
	Put(ctx context.Context, snap Snapshot) error
}

// ObjectSink writes the snapshot as a JSON object to object storage.
type ObjectSink struct {
	client storage.Client
	bucket string
	object string
	logger *zap.Logger
}

// NewObjectSink creates a sink targeting cfg's bucket and object key.
func NewObjectSink(client storage.Client, cfg storage.Config, logger *zap.Logger) *ObjectSink {
	return &ObjectSink{
		client: client,
		bucket: cfg.Bucket,
		object: cfg.Object,
		logger: logger,
	}
}

// Put serializes and uploads the snapshot, replacing the previous one.
func (s *ObjectSink) Put(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.object,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload snapshot to %s/%s: %w", s.bucket, s.object, err)
	}

	s.logger.Info("published availability snapshot",
		zap.String("bucket", s.bucket),
		zap.String("object", s.object),
		zap.Int("listings", len(snap.Listings)),
		zap.Int("bytes", len(payload)))
	return nil
}
