// Package store persists converted documents. Names are forward-slash
// separated and relative to the store root; writing an existing name
// replaces it.
package store

import "context"

type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Location(name string) string
}
