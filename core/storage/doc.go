// Package storage provides the object storage client used by the snapshot
// sink. It wraps the Minio SDK behind a narrow interface so tests can mock
// the single operation the engine performs (PutObject).
package storage
