package errs

import (
	stderrors "errors"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestReject(t *testing.T) {
	t.Parallel()
	err := Reject(IncorrectFunds, "Incorrect funds")
	assert.Equal(t, "Incorrect funds", err.Error())
	assert.True(t, errors.Is(err, IncorrectFunds))
	assert.True(t, stderrors.Is(err, IncorrectFunds))
	assert.False(t, errors.Is(err, CapExceeded))

	wrapped := errors.Wrap(err, "allowlist mint")
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, IncorrectFunds, kind)
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		err      error
		expected ErrorKind
		ok       bool
	}{
		{"rejection", Reject(PhaseInactive, "Public sale is not active"), PhaseInactive, true},
		{"wrapped kind", errors.Wrap(NotFound, "token 7"), NotFound, true},
		{"overflow", errors.WithStack(OverflowUint256), OverflowUint256, true},
		{"unknown", errors.New("connection reset"), "", false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			kind, ok := KindOf(tc.err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, kind)
		})
	}
}
