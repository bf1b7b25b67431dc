package observability

// NoOpObserver discards every notification.
type NoOpObserver struct{}

// ObserveOperation does nothing.
func (n *NoOpObserver) ObserveOperation(OperationContext) {}

// NewNoOpObserver returns an Observer that discards everything.
func NewNoOpObserver() Observer {
	return &NoOpObserver{}
}
