package analytics

import "context"

// Cache is a cache-aside JSON store. FetchJSON fills dest from the
// cache when the key is warm, and otherwise invokes the loader and
// stores its result. A nil Cache on the service means direct loads.
type Cache interface {
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
}
