package checkpoint

import "context"

// Store persists named byte streams. A missing stream loads as ok=false.
type Store interface {
	Save(ctx context.Context, stream string, payload []byte) error
	Load(ctx context.Context, stream string) (payload []byte, ok bool, err error)
}
