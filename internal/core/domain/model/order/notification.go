package order

// IsNotifiable reports whether entering the status is something the customer
// should hear about. Only the approval request, the pickup call and the
// delivery confirmation qualify. Channel and content are up to the caller.
func IsNotifiable(s Status) bool {
	switch s { //nolint:exhaustive // every other status is internal
	case AwaitingApproval, ReadyForPickup, Delivered:
		return true
	default:
		return false
	}
}
