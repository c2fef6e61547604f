package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound        = ErrorKind("Not Found")
	InvalidArgument = ErrorKind("Invalid Argument")
	Unsupported     = ErrorKind("Unsupported")
	OverflowUint256 = ErrorKind("overflow uint256")

	// Unauthorized is returned when a caller is not allowed to perform an admin operation.
	Unauthorized = ErrorKind("Unauthorized")

	// Rejection kinds of the mint ledger. Concrete rejections are marked with one of these
	// kinds and keep their own reason as the error message.
	CapExceeded           = ErrorKind("Cap Exceeded")
	PhaseInactive         = ErrorKind("Phase Inactive")
	AllowanceExceeded     = ErrorKind("Allowance Exceeded")
	InvalidProof          = ErrorKind("Invalid Proof")
	IncorrectFunds        = ErrorKind("Incorrect Funds")
	InsufficientBalance   = ErrorKind("Insufficient Balance")
	TransferToZeroAddress = ErrorKind("Transfer To Zero Address")
	TransferFailed        = ErrorKind("Transfer Failed")
	ReentrantCall         = ErrorKind("Reentrant Call")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// RejectionKinds are the kinds a caller can fix by changing its request.
var RejectionKinds = []ErrorKind{
	InvalidArgument,
	CapExceeded,
	PhaseInactive,
	AllowanceExceeded,
	InvalidProof,
	IncorrectFunds,
	InsufficientBalance,
	TransferToZeroAddress,
	TransferFailed,
	ReentrantCall,
}
