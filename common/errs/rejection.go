package errs

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// Rejection is a request refused by a business rule. Its message is the exact reason shown to
// the caller, and errors.Is(err, kind) holds for its kind.
type Rejection struct {
	kind   ErrorKind
	reason string
}

func (r *Rejection) Error() string {
	return r.reason
}

func (r *Rejection) Kind() ErrorKind {
	return r.kind
}

func (r *Rejection) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == r.kind
}

// Reject returns a new rejection of the given kind.
func Reject(kind ErrorKind, reason string) error {
	return withstack.WithStackDepth(&Rejection{kind: kind, reason: reason}, 1)
}

// KindOf returns the kind of the error, if it is a rejection or wraps a known kind.
func KindOf(err error) (ErrorKind, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection.kind, true
	}
	for _, kind := range append([]ErrorKind{Unauthorized, NotFound, OverflowUint256, Unsupported}, RejectionKinds...) {
		if errors.Is(err, kind) {
			return kind, true
		}
	}
	return "", false
}
