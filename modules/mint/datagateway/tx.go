package datagateway

import "context"

type Tx interface {
	// Commit persists every change made since BeginMintTx and closes the transaction.
	// Commit on a closed transaction is a no-op.
	Commit(ctx context.Context) error
	// Rollback discards every change made since BeginMintTx. It is safe to call after Commit, so a
	// deferred Rollback is always fine.
	Rollback(ctx context.Context) error
}
