package checkout

// State tags the progress of one checkout attempt. A successful attempt
// walks every state in order; any guard failure drops to StateAborted and
// leaves the session untouched from that point on.
type State int

const (
	StateNoDelivery State = iota
	StateDeliverySet
	StateOrderCreated
	StateOrderItemsCreated
	StateSessionCleared
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateNoDelivery:
		return "no-delivery"
	case StateDeliverySet:
		return "delivery-set"
	case StateOrderCreated:
		return "order-created"
	case StateOrderItemsCreated:
		return "order-items-created"
	case StateSessionCleared:
		return "session-cleared"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}
