package repository

import "context"

// Tx is the base contract for transactional repositories. Specialized
// transaction interfaces embed it and add their row-level operations.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
