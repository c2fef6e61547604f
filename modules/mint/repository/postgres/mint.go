package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/datagateway"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

const getLedgerState = `SELECT total_issued, allowlist_issued, internal_issued, max_supply, max_allowlist_supply,
	max_allowlist_per_wallet, allowlist_active, public_active, allowlist_price, public_price, allowlist_root, updated_at
FROM mint_ledger_state WHERE id = 1`

func (r *Repository) GetLedgerState(ctx context.Context) (*entity.LedgerState, error) {
	var m ledgerStateModel
	err := r.queryable().QueryRow(ctx, getLedgerState).Scan(
		&m.TotalIssued, &m.AllowlistIssued, &m.InternalIssued, &m.MaxSupply, &m.MaxAllowlistSupply,
		&m.MaxAllowlistPerWallet, &m.AllowlistActive, &m.PublicActive, &m.AllowlistPrice, &m.PublicPrice,
		&m.AllowlistRoot, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	state, err := mapLedgerStateModelToType(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ledger state")
	}
	return &state, nil
}

const saveLedgerState = `INSERT INTO mint_ledger_state (id, total_issued, allowlist_issued, internal_issued, max_supply,
	max_allowlist_supply, max_allowlist_per_wallet, allowlist_active, public_active, allowlist_price, public_price,
	allowlist_root, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
	total_issued = EXCLUDED.total_issued,
	allowlist_issued = EXCLUDED.allowlist_issued,
	internal_issued = EXCLUDED.internal_issued,
	max_supply = EXCLUDED.max_supply,
	max_allowlist_supply = EXCLUDED.max_allowlist_supply,
	max_allowlist_per_wallet = EXCLUDED.max_allowlist_per_wallet,
	allowlist_active = EXCLUDED.allowlist_active,
	public_active = EXCLUDED.public_active,
	allowlist_price = EXCLUDED.allowlist_price,
	public_price = EXCLUDED.public_price,
	allowlist_root = EXCLUDED.allowlist_root,
	updated_at = EXCLUDED.updated_at`

func (r *Repository) SaveLedgerState(ctx context.Context, state entity.LedgerState) error {
	m, err := mapLedgerStateTypeToModel(state)
	if err != nil {
		return errors.Wrap(err, "failed to map ledger state")
	}
	_, err = r.queryable().Exec(ctx, saveLedgerState,
		m.TotalIssued, m.AllowlistIssued, m.InternalIssued, m.MaxSupply, m.MaxAllowlistSupply,
		m.MaxAllowlistPerWallet, m.AllowlistActive, m.PublicActive, m.AllowlistPrice, m.PublicPrice,
		m.AllowlistRoot, m.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetAllowlistCounts(ctx context.Context) ([]entity.AllowlistCount, error) {
	rows, err := r.queryable().Query(ctx, `SELECT wallet, count FROM mint_allowlist_counts WHERE count > 0`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	var counts []entity.AllowlistCount
	for rows.Next() {
		var (
			wallet []byte
			count  int64
		)
		if err := rows.Scan(&wallet, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan allowlist count")
		}
		addr, err := addressFromBytes(wallet)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		counts = append(counts, entity.AllowlistCount{Wallet: addr, Count: uint64(count)})
	}
	return counts, errors.WithStack(rows.Err())
}

func (r *Repository) SetAllowlistCount(ctx context.Context, count entity.AllowlistCount) error {
	_, err := r.queryable().Exec(ctx, `INSERT INTO mint_allowlist_counts (wallet, count) VALUES ($1, $2)
ON CONFLICT (wallet) DO UPDATE SET count = EXCLUDED.count`, count.Wallet[:], int64(count.Count))
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetTokens(ctx context.Context) ([]entity.Token, error) {
	rows, err := r.queryable().Query(ctx, `SELECT id, owner FROM mint_tokens ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	var tokens []entity.Token
	for rows.Next() {
		var (
			id    int64
			owner []byte
		)
		if err := rows.Scan(&id, &owner); err != nil {
			return nil, errors.Wrap(err, "failed to scan token")
		}
		addr, err := addressFromBytes(owner)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		tokens = append(tokens, entity.Token{ID: uint64(id), Owner: addr})
	}
	return tokens, errors.WithStack(rows.Err())
}

func (r *Repository) CreateTokens(ctx context.Context, tokens []entity.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := r.queryable().Exec(ctx, `INSERT INTO mint_tokens (id, owner) SELECT * FROM UNNEST($1::BIGINT[], $2::BYTEA[])`,
		lo.Map(tokens, func(t entity.Token, _ int) int64 { return int64(t.ID) }),
		lo.Map(tokens, func(t entity.Token, _ int) []byte { return t.Owner[:] }),
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateTokenOwner(ctx context.Context, token entity.Token) error {
	tag, err := r.queryable().Exec(ctx, `UPDATE mint_tokens SET owner = $2 WHERE id = $1`, int64(token.ID), token.Owner[:])
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.NotFound, "token %d", token.ID)
	}
	return nil
}

func (r *Repository) GetBalances(ctx context.Context) ([]entity.Balance, error) {
	rows, err := r.queryable().Query(ctx, `SELECT address, amount FROM mint_balances`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	var balances []entity.Balance
	for rows.Next() {
		var (
			address []byte
			amount  pgtype.Numeric
		)
		if err := rows.Scan(&address, &amount); err != nil {
			return nil, errors.Wrap(err, "failed to scan balance")
		}
		addr, err := addressFromBytes(address)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		value, err := uint256FromNumeric(amount)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		balances = append(balances, entity.Balance{Address: addr, Amount: value})
	}
	return balances, errors.WithStack(rows.Err())
}

func (r *Repository) SetBalances(ctx context.Context, balances []entity.Balance) error {
	if len(balances) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, balance := range balances {
		amount, err := numericFromUint256(balance.Amount)
		if err != nil {
			return errors.WithStack(err)
		}
		batch.Queue(`INSERT INTO mint_balances (address, amount) VALUES ($1, $2)
ON CONFLICT (address) DO UPDATE SET amount = EXCLUDED.amount`, balance.Address[:], amount)
	}
	results := r.sendBatch(ctx, batch)
	defer results.Close()
	for range balances {
		if _, err := results.Exec(); err != nil {
			return errors.Wrap(err, "error during batch exec")
		}
	}
	return nil
}

func (r *Repository) sendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults {
	if r.tx != nil {
		return r.tx.SendBatch(ctx, batch)
	}
	return r.db.SendBatch(ctx, batch)
}

func (r *Repository) CreateMintEvent(ctx context.Context, event entity.MintEvent) error {
	payment, err := numericFromUint256(event.Payment)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = r.queryable().Exec(ctx, `INSERT INTO mint_events (category, sender, recipient, quantity, payment, first_token_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		int16(event.Category), event.Sender[:], event.Recipient[:], int64(event.Quantity), payment, int64(event.FirstTokenID),
		pgtype.Timestamptz{Time: event.CreatedAt, Valid: true},
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetMintEvents(ctx context.Context, arg datagateway.GetMintEventsParams) ([]entity.MintEvent, error) {
	var wallet []byte
	if arg.Wallet != nil {
		wallet = arg.Wallet[:]
	}
	rows, err := r.queryable().Query(ctx, `SELECT id, category, sender, recipient, quantity, payment, first_token_id, created_at
FROM mint_events
WHERE $1::BYTEA IS NULL OR sender = $1 OR recipient = $1
ORDER BY id DESC
LIMIT $2 OFFSET $3`, wallet, arg.Limit, arg.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	var events []entity.MintEvent
	for rows.Next() {
		var (
			event                  entity.MintEvent
			category               int16
			sender, recipient      []byte
			quantity, firstTokenID int64
			payment                pgtype.Numeric
			createdAt              pgtype.Timestamptz
		)
		if err := rows.Scan(&event.ID, &category, &sender, &recipient, &quantity, &payment, &firstTokenID, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan mint event")
		}
		if event.Sender, err = addressFromBytes(sender); err != nil {
			return nil, errors.WithStack(err)
		}
		if event.Recipient, err = addressFromBytes(recipient); err != nil {
			return nil, errors.WithStack(err)
		}
		if event.Payment, err = uint256FromNumeric(payment); err != nil {
			return nil, errors.WithStack(err)
		}
		event.Category = entity.Category(category)
		event.Quantity = uint64(quantity)
		event.FirstTokenID = uint64(firstTokenID)
		event.CreatedAt = createdAt.Time.UTC()
		events = append(events, event)
	}
	return events, errors.WithStack(rows.Err())
}

func (r *Repository) CreateWithdrawal(ctx context.Context, withdrawal entity.Withdrawal) error {
	balance, err := numericFromUint256(withdrawal.Balance)
	if err != nil {
		return errors.WithStack(err)
	}
	payouts, err := mapPayoutsTypeToModel(withdrawal.Payouts)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = r.queryable().Exec(ctx, `INSERT INTO mint_withdrawals (balance, payouts, created_at) VALUES ($1, $2, $3)`,
		balance, payouts, pgtype.Timestamptz{Time: withdrawal.CreatedAt, Valid: true},
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetWithdrawals(ctx context.Context, limit, offset int32) ([]entity.Withdrawal, error) {
	rows, err := r.queryable().Query(ctx, `SELECT id, balance, payouts, created_at FROM mint_withdrawals
ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	var withdrawals []entity.Withdrawal
	for rows.Next() {
		var (
			withdrawal entity.Withdrawal
			balance    pgtype.Numeric
			payouts    []byte
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&withdrawal.ID, &balance, &payouts, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan withdrawal")
		}
		if withdrawal.Balance, err = uint256FromNumeric(balance); err != nil {
			return nil, errors.WithStack(err)
		}
		if withdrawal.Payouts, err = mapPayoutsModelToType(payouts); err != nil {
			return nil, errors.WithStack(err)
		}
		withdrawal.CreatedAt = createdAt.Time.UTC()
		withdrawals = append(withdrawals, withdrawal)
	}
	return withdrawals, errors.WithStack(rows.Err())
}
