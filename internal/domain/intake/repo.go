package intake

import "context"

// Repository is the append-only intake store. List returns the full
// sequence in submission order; all filtering and aggregation is done by
// the query view over that snapshot, not by the store.
type Repository interface {
	Append(ctx context.Context, r *Record) error
	List(ctx context.Context) ([]*Record, error)
}
