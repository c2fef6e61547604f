package controller

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
)

// TransferFrom moves token id from from to to on behalf of caller, who must own it.
func (c *Controller) TransferFrom(ctx context.Context, caller, from, to entity.Address, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tokens.CheckTransfer(caller, from, to, id); err != nil {
		return rejected(ctx, "transfer", err)
	}
	if err := c.dg.UpdateTokenOwner(ctx, entity.Token{ID: id, Owner: to}); err != nil {
		return errors.Wrap(err, "failed to update token owner")
	}
	if err := c.tokens.TransferFrom(caller, from, to, id); err != nil {
		return errors.WithStack(err)
	}
	logger.InfoContext(ctx, "Transferred token",
		slogx.Uint64("tokenId", id),
		slogx.Stringer("from", &from),
		slogx.Stringer("to", &to),
	)
	return nil
}
