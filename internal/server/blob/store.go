// Package blob abstracts physical storage of document payloads. Two
// backends are provided: a local upload directory and an S3-compatible
// object store.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is the physical storage collaborator. Save returns an opaque key
// that Read and Delete accept later. All operations are fallible; policy
// decisions never depend on them.
type Store interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// newStorageKey produces a date-partitioned key so object listings stay
// manageable. ext is the filename extension without the dot; it may be empty.
func newStorageKey(ext string) string {
	d := time.Now()
	key := fmt.Sprintf("documents/%d/%d/%d/%v", d.Year(), int(d.Month()), d.Day(), uuid.New())
	if ext != "" {
		key += "." + ext
	}
	return key
}
