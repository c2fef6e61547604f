package supply

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
)

const (
	ReasonMaxSupply          = "would exceed max supply"
	ReasonMaxAllowlistSupply = "Purchase would exceed max supply for allowlist mint"
)

var (
	ErrMaxSupplyExceeded          = errs.Reject(errs.CapExceeded, ReasonMaxSupply)
	ErrMaxAllowlistSupplyExceeded = errs.Reject(errs.CapExceeded, ReasonMaxAllowlistSupply)
)

// Ledger tracks issued counts against the supply caps. It is not safe for concurrent use; the
// owner serializes access.
type Ledger struct {
	counters           entity.SupplyCounters
	maxSupply          uint64
	maxAllowlistSupply uint64
}

func NewLedger(maxSupply, maxAllowlistSupply uint64, counters entity.SupplyCounters) (*Ledger, error) {
	if maxSupply == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "max supply must be greater than zero")
	}
	if maxAllowlistSupply > maxSupply {
		return nil, errors.Wrap(errs.InvalidArgument, "max allowlist supply exceeds max supply")
	}
	if counters.TotalIssued > maxSupply || counters.AllowlistIssued > maxAllowlistSupply {
		return nil, errors.Wrap(errs.InvalidArgument, "issued counters exceed caps")
	}
	return &Ledger{
		counters:           counters,
		maxSupply:          maxSupply,
		maxAllowlistSupply: maxAllowlistSupply,
	}, nil
}

// Reservation is the counter state after a reservation, applied with Commit.
type Reservation struct {
	Category entity.Category
	Quantity uint64
	next     entity.SupplyCounters
}

func (r Reservation) Counters() entity.SupplyCounters {
	return r.next
}

// Reserve checks that quantity more units of category fit under the caps. It does not change
// the ledger; the returned reservation is applied with Commit once the rest of the mint succeeds.
func (l *Ledger) Reserve(category entity.Category, quantity uint64) (Reservation, error) {
	if quantity > l.maxSupply-l.counters.TotalIssued {
		return Reservation{}, errors.WithStack(ErrMaxSupplyExceeded)
	}
	next := l.counters
	next.TotalIssued += quantity

	switch category {
	case entity.CategoryAllowlist:
		if l.counters.AllowlistIssued > l.maxAllowlistSupply || quantity > l.maxAllowlistSupply-l.counters.AllowlistIssued {
			return Reservation{}, errors.WithStack(ErrMaxAllowlistSupplyExceeded)
		}
		next.AllowlistIssued += quantity
	case entity.CategoryInternal:
		next.InternalIssued += quantity
	case entity.CategoryPublic:
	default:
		return Reservation{}, errors.Wrapf(errs.InvalidArgument, "unknown category %d", category)
	}
	return Reservation{Category: category, Quantity: quantity, next: next}, nil
}

// Commit applies a reservation made against the current counters.
func (l *Ledger) Commit(r Reservation) {
	l.counters = r.next
}

func (l *Ledger) Counters() entity.SupplyCounters {
	return l.counters
}

func (l *Ledger) MaxSupply() uint64 {
	return l.maxSupply
}

func (l *Ledger) MaxAllowlistSupply() uint64 {
	return l.maxAllowlistSupply
}

func (l *Ledger) Remaining() uint64 {
	return l.maxSupply - l.counters.TotalIssued
}

// CheckAllowlistSupply validates a new allowlist cap without applying it.
func (l *Ledger) CheckAllowlistSupply(n uint64) error {
	if n > l.maxSupply {
		return errors.Wrapf(errs.InvalidArgument, "allowlist supply %d exceeds max supply %d", n, l.maxSupply)
	}
	if n < l.counters.AllowlistIssued {
		return errors.Wrapf(errs.InvalidArgument, "allowlist supply %d is below already minted %d", n, l.counters.AllowlistIssued)
	}
	return nil
}

func (l *Ledger) SetAllowlistSupply(n uint64) error {
	if err := l.CheckAllowlistSupply(n); err != nil {
		return errors.WithStack(err)
	}
	l.maxAllowlistSupply = n
	return nil
}
