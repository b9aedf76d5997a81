package storage

import (
	"context"
	"fmt"
	"strings"
)

// ObjectStore puts uploaded files somewhere publicly readable.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

func joinURL(base, key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), strings.TrimPrefix(key, "/"))
}
