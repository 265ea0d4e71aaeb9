// README: Order aggregate, lifecycle statuses, and transition table.
package order

import (
	"time"

	"swiftpost/internal/modules/pricing"
	"swiftpost/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusPickedUp  Status = "picked_up"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Order is one consignment. The quote input fields and the full price
// breakdown are flattened onto the record at creation time; pricing is
// never recomputed after that.
type Order struct {
	ID             types.ID
	ClientID       types.ID
	DriverID       *types.ID
	Status         Status
	StatusVersion  int
	PickupAddress  string
	DropoffAddress string
	Items          []pricing.Item
	Service        pricing.ServiceType
	DistanceKm     float64
	WaitingMinutes int
	UseCustomPrice bool
	CustomPrice    float64
	Pricing        pricing.Breakdown
	Notes          string
	CreatedAt      time.Time
	AssignedAt     *time.Time
	PickedUpAt     *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   *string
}

type Event struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the delivery state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAssigned, StatusCancelled},
	StatusAssigned: {StatusPickedUp, StatusPending, StatusCancelled}, // back to pending when a driver drops the job
	StatusPickedUp: {StatusDelivered, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
