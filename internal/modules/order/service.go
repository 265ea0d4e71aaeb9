// README: Order service: creation with server-side pricing, state transitions.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"swiftpost/internal/modules/pricing"
	"swiftpost/internal/types"
)

var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("order not found")
	ErrInvalidState  = errors.New("invalid state transition")
	ErrConflict      = errors.New("order state conflict")
	ErrQuoteRequired = errors.New("manual quote required before submission")
)

// Quoter prices a consignment. Implemented by *pricing.Service.
type Quoter interface {
	Quote(ctx context.Context, in pricing.QuoteInput) (pricing.Breakdown, error)
}

// Storage is the persistence contract the service needs. *Store is the
// Postgres implementation; tests use an in-memory fake.
type Storage interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID) (bool, error)
	SetCancelReason(ctx context.Context, id types.ID, reason string) error
	AppendEvent(ctx context.Context, e *Event) error
	ListByDriver(ctx context.Context, driverID types.ID) ([]*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]*Order, error)
}

type Service struct {
	store  Storage
	quoter Quoter
}

func NewService(store Storage, quoter Quoter) *Service {
	return &Service{store: store, quoter: quoter}
}

type CreateCommand struct {
	ClientID       types.ID
	PickupAddress  string
	DropoffAddress string
	Quote          pricing.QuoteInput
	Notes          string
}

type AssignCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type PickupCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type DeliverCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type ReleaseCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type CancelCommand struct {
	OrderID   types.ID
	ActorType string
	Reason    string
}

// Create prices the consignment server-side and persists the order with
// the breakdown flattened on. Client-supplied totals are never trusted.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Order, error) {
	if cmd.ClientID == "" || cmd.PickupAddress == "" || cmd.DropoffAddress == "" {
		return nil, ErrBadRequest
	}
	if len(cmd.Quote.Items) == 0 {
		return nil, ErrBadRequest
	}

	breakdown, err := s.quoter.Quote(ctx, cmd.Quote)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return nil, ErrBadRequest
		}
		return nil, err
	}
	if breakdown.RequiresQuote {
		return nil, ErrQuoteRequired
	}

	now := time.Now()
	o := &Order{
		ID:             types.ID(uuid.NewString()),
		ClientID:       cmd.ClientID,
		Status:         StatusPending,
		StatusVersion:  0,
		PickupAddress:  cmd.PickupAddress,
		DropoffAddress: cmd.DropoffAddress,
		Items:          cmd.Quote.Items,
		Service:        cmd.Quote.Service,
		DistanceKm:     cmd.Quote.DistanceKm,
		WaitingMinutes: cmd.Quote.WaitingMinutes,
		UseCustomPrice: cmd.Quote.UseCustomPrice,
		CustomPrice:    cmd.Quote.CustomPrice,
		Pricing:        breakdown,
		Notes:          cmd.Notes,
		CreatedAt:      now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusPending,
		ActorType:  "client",
		ActorID:    &cmd.ClientID,
		CreatedAt:  now,
	})
	return o, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

// ListJobs returns a driver's active orders plus the unassigned pool.
func (s *Service) ListJobs(ctx context.Context, driverID types.ID) ([]*Order, error) {
	mine, err := s.store.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	open, err := s.store.ListByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	return append(mine, open...), nil
}

func (s *Service) Assign(ctx context.Context, cmd AssignCommand) error {
	return s.transition(ctx, cmd.OrderID, StatusAssigned, "admin", &cmd.DriverID)
}

func (s *Service) Pickup(ctx context.Context, cmd PickupCommand) error {
	return s.transition(ctx, cmd.OrderID, StatusPickedUp, "driver", &cmd.DriverID)
}

func (s *Service) Deliver(ctx context.Context, cmd DeliverCommand) error {
	return s.transition(ctx, cmd.OrderID, StatusDelivered, "driver", &cmd.DriverID)
}

// Release puts an assigned order back in the pending pool.
func (s *Service) Release(ctx context.Context, cmd ReleaseCommand) error {
	return s.transition(ctx, cmd.OrderID, StatusPending, "driver", &cmd.DriverID)
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusCancelled, o.StatusVersion, o.DriverID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	if cmd.Reason != "" {
		if err := s.store.SetCancelReason(ctx, o.ID, cmd.Reason); err != nil {
			return err
		}
	}
	actorID := o.DriverID
	if cmd.ActorType == "client" {
		actorID = &o.ClientID
	}
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   StatusCancelled,
		ActorType:  cmd.ActorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (s *Service) transition(ctx context.Context, id types.ID, to Status, actorType string, actorID *types.ID) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, to, o.StatusVersion, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	return nil
}
