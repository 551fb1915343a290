package debtbook

import "context"

// Names of the two persisted collections.
const (
	CollectionClients      = "clients"
	CollectionTransactions = "tx"
)

// Gateway is the persistence contract the domain operates against.
// Records are opaque JSON blobs keyed by their id; each method is atomic at
// the single-record granularity and there is no transaction spanning calls.
// The bbolt implementation lives in the store package.
type Gateway interface {
	// ReadAll returns every record of the collection, in unspecified order.
	ReadAll(ctx context.Context, collection string) ([][]byte, error)
	// Upsert replaces-or-inserts the record under its id. It never merges.
	Upsert(ctx context.Context, collection, id string, record []byte) error
	// Delete removes the record by id. A missing key is a no-op, not an error.
	Delete(ctx context.Context, collection, id string) error
}
