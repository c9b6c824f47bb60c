// Package backup writes export bundles to a durable sink: a directory on the
// local filesystem or an S3-compatible bucket.
package backup

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Drivers.
const (
	DriverNone = "none"
	DriverFS   = "fs"
	DriverS3   = "s3"
)

// KeyPrefix groups backup objects.
const KeyPrefix = "exports/"

// Info describes a stored backup.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Sink stores backup payloads.
type Sink interface {
	Driver() string
	Put(ctx context.Context, key string, data []byte) (Info, error)
	List(ctx context.Context) ([]Info, error)
}

// Config selects and configures a sink.
type Config struct {
	Driver      string
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Open builds the sink named by cfg.Driver. DriverNone (or empty) returns a
// nil Sink and no error.
func Open(ctx context.Context, cfg Config) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverNone:
		return nil, nil
	case DriverFS:
		return NewFS(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown backup driver %q", cfg.Driver)
	}
}

// KeyFor names a backup taken at t. Keys sort by time to the millisecond; a
// random suffix keeps two backups in the same millisecond apart.
func KeyFor(t time.Time) string {
	stamp := t.UTC().Format("20060102T150405.000Z")
	return path.Join(KeyPrefix, "glesp-backup-"+stamp+"-"+uuid.NewString()[:8]+".json")
}

// sanitizeKey rejects keys that could escape the sink root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	return path.Clean(key), nil
}
