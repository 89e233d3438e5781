// Package blob stores exported workout documents.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
)

var ErrNotFound = errors.New("blob not found")

type Info struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store is a flat, key addressed archive. Put replaces an existing blob under the same key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

type OpenParams struct {
	Driver     Driver
	Dir        string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	PathStyle  bool
}

func Open(ctx context.Context, params OpenParams) (Store, error) {
	switch Driver(strings.ToLower(string(params.Driver))) {
	case DriverFilesystem, "":
		return NewFSStore(params.Dir)
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    params.S3Bucket,
			Region:    params.S3Region,
			Endpoint:  params.S3Endpoint,
			PathStyle: params.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver: %s", params.Driver)
	}
}

// sanitizeKey keeps keys relative and inside the store root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key: %s", key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
