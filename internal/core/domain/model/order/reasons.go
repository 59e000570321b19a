package order

// defaultReasons is the reason recorded when a transition is requested
// without one.
var defaultReasons = map[Status]string{
	Received:         "Order received",
	Diagnosing:       "Diagnosis started",
	AwaitingParts:    "Waiting for parts",
	AwaitingApproval: "Waiting for customer approval of the estimate",
	Repairing:        "Repair in progress",
	Testing:          "Testing the repair",
	ReadyForPickup:   "Ready for pickup",
	Delivered:        "Delivered to customer",
	Cancelled:        "Order cancelled",
	Warranty:         "Returned under warranty",
}

// DefaultReason returns the stock reason text for entering the status.
func DefaultReason(s Status) string {
	if reason, ok := defaultReasons[s]; ok {
		return reason
	}
	return "Status changed"
}
