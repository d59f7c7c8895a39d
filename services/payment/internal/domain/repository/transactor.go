package repository

import "context"

// Transactor runs fn inside one database transaction. The transaction is
// carried by the context passed to fn; repositories called with that context
// join it. A non-nil error or a panic from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
