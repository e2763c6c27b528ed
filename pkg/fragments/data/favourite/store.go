package favourite

import (
	"context"

	"github.com/pkg/errors"
)

var ErrFavouriteNotFound = errors.New("favourite not found")

type Store interface {
	// Ping checks connectivity to the underlying cache
	Ping(ctx context.Context) (string, error)

	// Put sets the favourite coin for a namespace, overwriting any existing
	// value
	Put(ctx context.Context, namespace, favouriteCoin string) error

	// Get gets the favourite coin for a namespace. ErrFavouriteNotFound is
	// returned if none is set.
	Get(ctx context.Context, namespace string) (string, error)

	// Delete clears the favourite coin for a namespace. Deleting a missing
	// value is not an error.
	Delete(ctx context.Context, namespace string) error
}
