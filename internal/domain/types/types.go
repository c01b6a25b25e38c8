package types

// ServiceName is used in logs and metric labels.
const ServiceName = "vahanseva"

// RideStatus is the lifecycle state of a ride. Transitions form a one-way
// progression Pending → Assigned → En Route → Completed, with Cancelled
// reachable from any non-terminal state.
type RideStatus string

const (
	StatusPending   RideStatus = "Pending"
	StatusAssigned  RideStatus = "Assigned"
	StatusEnRoute   RideStatus = "En Route"
	StatusCompleted RideStatus = "Completed"
	StatusCancelled RideStatus = "Cancelled"
)

func (s RideStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s RideStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the one-way progression allows moving
// from s to next.
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusAssigned
	case StatusAssigned:
		return next == StatusEnRoute
	case StatusEnRoute:
		return next == StatusCompleted
	default:
		return false
	}
}

// RideType is the vehicle category requested by the customer.
type RideType string

const (
	RideTypeBike RideType = "bike"
	RideTypeCar  RideType = "car"
)

// UserRole separates customers (who book rides) from riders (who serve them).
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleRider    UserRole = "rider"
)

func (r UserRole) String() string {
	return string(r)
}
