package order

// TransitionEvent describes a committed state change. Transitions return
// it to the caller; the notification dispatcher consumes it after the
// fact and can never affect the transition's own outcome.
type TransitionEvent struct {
	Order   *Order
	From    Status
	To      Status
	ActorID int64
}
