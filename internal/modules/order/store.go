// README: Order store backed by PostgreSQL; breakdown flattened into columns.
package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swiftpost/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const orderColumns = `
	id, client_id, driver_id, status, status_version,
	pickup_address, dropoff_address, items, service_type,
	distance_km, waiting_minutes, use_custom_price, custom_price,
	base_price, distance_charge, weight_charge, waiting_charge,
	subtotal, fuel_levy, gst, total, chargeable_weight_kg, requires_quote,
	notes, created_at, assigned_at, picked_up_at, delivered_at,
	cancelled_at, cancellation_reason`

func (s *Store) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO orders (
			id, client_id, driver_id, status, status_version,
			pickup_address, dropoff_address, items, service_type,
			distance_km, waiting_minutes, use_custom_price, custom_price,
			base_price, distance_charge, weight_charge, waiting_charge,
			subtotal, fuel_levy, gst, total, chargeable_weight_kg, requires_quote,
			notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23,
			$24, $25
		)`,
		string(o.ID),
		string(o.ClientID),
		toStringPtr(o.DriverID),
		string(o.Status),
		o.StatusVersion,
		o.PickupAddress, o.DropoffAddress, items, string(o.Service),
		o.DistanceKm, o.WaitingMinutes, o.UseCustomPrice, o.CustomPrice,
		o.Pricing.BasePrice, o.Pricing.DistanceCharge, o.Pricing.WeightCharge, o.Pricing.WaitingCharge,
		o.Pricing.Subtotal, o.Pricing.FuelLevy, o.Pricing.GST, o.Pricing.Total,
		o.Pricing.ChargeableWeightKg, o.Pricing.RequiresQuote,
		o.Notes, o.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, string(id))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *Store) ListByDriver(ctx context.Context, driverID types.ID) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE driver_id = $1 AND status IN ('assigned','picked_up')
		ORDER BY created_at`, string(driverID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *Store) ListByStatus(ctx context.Context, status Status) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1
		ORDER BY created_at`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    status_version = status_version + 1,
		    driver_id = CASE WHEN $1 = 'pending' THEN NULL ELSE COALESCE($2, driver_id) END,
		    assigned_at = CASE WHEN $1 = 'assigned' THEN NOW() ELSE assigned_at END,
		    picked_up_at = CASE WHEN $1 = 'picked_up' THEN NOW() ELSE picked_up_at END,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to),
		toStringPtr(driverID),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetCancelReason(ctx context.Context, id types.ID, reason string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE orders SET cancellation_reason = $2 WHERE id = $1`,
		string(id), reason,
	)
	return err
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_state_events (
			order_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var driverID, cancelReason sql.NullString
	var items []byte
	var assignedAt, pickedUpAt, deliveredAt, cancelledAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.ClientID, &driverID, &o.Status, &o.StatusVersion,
		&o.PickupAddress, &o.DropoffAddress, &items, &o.Service,
		&o.DistanceKm, &o.WaitingMinutes, &o.UseCustomPrice, &o.CustomPrice,
		&o.Pricing.BasePrice, &o.Pricing.DistanceCharge, &o.Pricing.WeightCharge, &o.Pricing.WaitingCharge,
		&o.Pricing.Subtotal, &o.Pricing.FuelLevy, &o.Pricing.GST, &o.Pricing.Total,
		&o.Pricing.ChargeableWeightKg, &o.Pricing.RequiresQuote,
		&o.Notes, &o.CreatedAt, &assignedAt, &pickedUpAt, &deliveredAt,
		&cancelledAt, &cancelReason,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, err
		}
	}
	if driverID.Valid {
		d := types.ID(driverID.String)
		o.DriverID = &d
	}
	o.AssignedAt = toTimePtr(assignedAt)
	o.PickedUpAt = toTimePtr(pickedUpAt)
	o.DeliveredAt = toTimePtr(deliveredAt)
	o.CancelledAt = toTimePtr(cancelledAt)
	if cancelReason.Valid {
		o.CancelReason = &cancelReason.String
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]*Order, error) {
	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
