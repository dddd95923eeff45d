package crypto

import "errors"

// Error taxonomy shared by every operation. Concrete failures wrap one of these
// sentinels, so callers match them with errors.Is.
var (
	// ErrNotSupported reports an unimplemented (algorithm, operation) pair, key format or hash.
	ErrNotSupported = errors.New("NotSupportedError")
	// ErrSyntax reports a missing or malformed parameter or an illegal usage list.
	ErrSyntax = errors.New("SyntaxError")
	// ErrOperation reports a failed numeric/length precondition or a padding failure.
	ErrOperation = errors.New("OperationError")
	// ErrData reports key material that does not fit the requested primitive.
	ErrData = errors.New("DataError")
	// ErrInvalidAccess reports a usage-gate or extractability failure.
	ErrInvalidAccess = errors.New("InvalidAccessError")
)

var errorKinds = []error{ErrNotSupported, ErrSyntax, ErrOperation, ErrData, ErrInvalidAccess}

// KindOf returns the DOMException name for err, or an empty string when err is
// nil or outside the taxonomy.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ""
}
