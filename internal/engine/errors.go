package engine

import "fmt"

// Stable rejection reason codes. Every user-facing failure is a structured
// rejection with one of these codes; no exception escapes to the caller.
const (
	ErrPrecondition  = "E_PRECONDITION"   // Wrong zone type, bad state, bad params
	ErrNoResource    = "E_NO_RESOURCE"    // Insufficient goods or credits
	ErrNoLicense     = "E_NO_LICENSE"     // Shipment class not licensed
	ErrNotAtLocation = "E_NOT_AT_ZONE"    // Player not where the action requires
	ErrRateLimit     = "E_RATE_LIMIT"     // One action per tick, or daily cap
	ErrNotFound      = "E_NOT_FOUND"      // Entity missing
	ErrNoPermission  = "E_NO_PERMISSION"  // Not your unit/shipment/order
	ErrConflict      = "E_CONFLICT"       // Already accepted, already joined
	ErrInvalidTarget = "E_INVALID_TARGET" // Target exists but is not valid here
	ErrInternal      = "E_INTERNAL"       // Storage or engine failure
)

// Reject is an action rejection: a stable code plus human-readable detail.
// Rejected actions leave no side effects.
type Reject struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (r *Reject) Error() string {
	return r.Code + ": " + r.Detail
}

func rejectf(code, format string, args ...any) *Reject {
	return &Reject{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// RejectCode extracts the reason code from an error, or E_INTERNAL for
// anything that is not a structured rejection.
func RejectCode(err error) string {
	if r, ok := err.(*Reject); ok {
		return r.Code
	}
	return ErrInternal
}
