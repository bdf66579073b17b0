// Package storage persists the four record collections behind a get-all / replace-all
// interface so the backing technology can change without touching handler logic.
package storage

import "context"

// Collection names
const (
	UsersCollection      = "users"
	MessagesCollection   = "messages"
	PaymentsCollection   = "payments"
	BroadcastsCollection = "broadcasts"
)

// Collection is one persisted record set. ReplaceAll overwrites the whole set; there is
// no partial write and no locking across processes, so the last writer wins.
type Collection[T any] interface {
	Name() string
	All(ctx context.Context) ([]T, error)
	ReplaceAll(ctx context.Context, items []T) error
}

// Initializer is implemented by collections that can create their empty backing storage
type Initializer interface {
	Ensure(ctx context.Context) (created bool, err error)
}

// cloneSlice returns a copy of items that is never nil
func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
