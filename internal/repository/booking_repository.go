package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/travel-booking-platform/internal/model"
    "github.com/iliyamo/travel-booking-platform/internal/utils"
)

// BookingRepo creates and cancels bookings.  Seat accounting and the
// booking row always change in the same transaction: booking a trip
// decrements available_seats behind a conditional UPDATE (so two
// concurrent bookings cannot oversell), and cancelling restores the
// seats with a raw increment.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "id, trip_id, client_id, seats_booked, total_price, status, payment_status, cancellation_date, cancellation_reason, created_at, updated_at"

func scanBooking(row *sql.Row) (model.Booking, error) {
    var b model.Booking
    var cancelDate sql.NullTime
    var cancelReason sql.NullString
    err := row.Scan(&b.ID, &b.TripID, &b.ClientID, &b.SeatsBooked, &b.TotalPrice,
        &b.Status, &b.PaymentStatus, &cancelDate, &cancelReason, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return model.Booking{}, err
    }
    if cancelDate.Valid {
        t := cancelDate.Time
        b.CancellationDate = &t
    }
    if cancelReason.Valid {
        s := cancelReason.String
        b.CancellationReason = &s
    }
    return b, nil
}

// Book reserves seats on an active trip for a client.  The trip must
// exist and be active (sql.ErrNoRows otherwise).  The seat decrement
// is guarded by available_seats >= seats; zero affected rows means the
// trip cannot hold the request and ErrInsufficientSeats is returned
// with nothing written.  TotalPrice is captured here as
// price × seats and never recomputed.
func (r *BookingRepo) Book(ctx context.Context, tripID, clientID uint64, seats uint32) (model.Booking, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Booking{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var price string
    if err := tx.QueryRowContext(ctx,
        "SELECT price FROM trips WHERE id = ? AND status = ?",
        tripID, model.TripStatusActive).Scan(&price); err != nil {
        return model.Booking{}, err
    }

    res, err := tx.ExecContext(ctx,
        "UPDATE trips SET available_seats = available_seats - ? WHERE id = ? AND available_seats >= ?",
        seats, tripID, seats)
    if err != nil {
        return model.Booking{}, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return model.Booking{}, err
    }
    if n == 0 {
        return model.Booking{}, ErrInsufficientSeats
    }

    priceCents, err := utils.ParseCents(price)
    if err != nil {
        return model.Booking{}, err
    }
    total := utils.FormatCents(utils.MulCents(priceCents, seats))

    ins, err := tx.ExecContext(ctx,
        "INSERT INTO bookings (trip_id, client_id, seats_booked, total_price, status, payment_status) VALUES (?,?,?,?,?,?)",
        tripID, clientID, seats, total, model.BookingStatusPending, model.PaymentStatusPending)
    if err != nil {
        return model.Booking{}, err
    }
    id, err := ins.LastInsertId()
    if err != nil {
        return model.Booking{}, err
    }

    row := tx.QueryRowContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
    booking, err := scanBooking(row)
    if err != nil {
        return model.Booking{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Booking{}, err
    }
    committed = true
    return booking, nil
}

// GetForClient returns a booking owned by the given client.
func (r *BookingRepo) GetForClient(ctx context.Context, bookingID, clientID uint64) (model.Booking, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE id = ? AND client_id = ?", bookingID, clientID)
    return scanBooking(row)
}

// Cancel marks a booking cancelled, records when and why, and restores
// the trip's seats with a single raw increment.  Missing or foreign
// bookings surface as sql.ErrNoRows; re-cancelling fails with
// ErrAlreadyCancelled.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID, clientID uint64, reason string) (model.Booking, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Booking{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    row := tx.QueryRowContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE id = ? AND client_id = ? FOR UPDATE",
        bookingID, clientID)
    booking, err := scanBooking(row)
    if err != nil {
        return model.Booking{}, err
    }
    if booking.Status == model.BookingStatusCancelled {
        return model.Booking{}, ErrAlreadyCancelled
    }

    var reasonArg interface{}
    if reason != "" {
        reasonArg = reason
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE bookings SET status = ?, cancellation_date = NOW(), cancellation_reason = ? WHERE id = ?",
        model.BookingStatusCancelled, reasonArg, bookingID); err != nil {
        return model.Booking{}, err
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE trips SET available_seats = available_seats + ? WHERE id = ?",
        booking.SeatsBooked, booking.TripID); err != nil {
        return model.Booking{}, err
    }

    row = tx.QueryRowContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", bookingID)
    cancelled, err := scanBooking(row)
    if err != nil {
        return model.Booking{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Booking{}, err
    }
    committed = true
    return cancelled, nil
}

// SetStatus applies an externally driven transition (confirmed or
// completed).  Payment confirmation lives outside this service; the
// only checks are that the booking exists and, when actorAgentID is
// set, that it points at the owning agent of the booking's trip.
// Admin callers pass nil.  Confirming also marks the payment as paid.
func (r *BookingRepo) SetStatus(ctx context.Context, bookingID uint64, status string, actorAgentID *uint64) (model.Booking, error) {
    if status != model.BookingStatusConfirmed && status != model.BookingStatusCompleted {
        return model.Booking{}, ErrBadTransition
    }
    if actorAgentID != nil {
        var ownerID uint64
        if err := r.db.QueryRowContext(ctx,
            "SELECT t.agent_id FROM bookings b JOIN trips t ON t.id = b.trip_id WHERE b.id = ?",
            bookingID).Scan(&ownerID); err != nil {
            return model.Booking{}, err
        }
        if ownerID != *actorAgentID {
            return model.Booking{}, ErrForbidden
        }
    }
    q := "UPDATE bookings SET status = ? WHERE id = ?"
    if status == model.BookingStatusConfirmed {
        q = "UPDATE bookings SET status = ?, payment_status = 'paid' WHERE id = ?"
    }
    res, err := r.db.ExecContext(ctx, q, status, bookingID)
    if err != nil {
        return model.Booking{}, err
    }
    if n, err := res.RowsAffected(); err != nil {
        return model.Booking{}, err
    } else if n == 0 {
        if _, err := r.getByID(ctx, bookingID); err != nil {
            return model.Booking{}, err
        }
    }
    return r.getByID(ctx, bookingID)
}

func (r *BookingRepo) getByID(ctx context.Context, id uint64) (model.Booking, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
    return scanBooking(row)
}

// ListByClient returns a client's bookings newest first.
func (r *BookingRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE client_id = ? ORDER BY created_at DESC", clientID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectBookings(rows)
}

// ListByTrip returns bookings for a trip owned by the given agent.
func (r *BookingRepo) ListByTrip(ctx context.Context, tripID, agentID uint64) ([]model.Booking, error) {
    var ownerID uint64
    if err := r.db.QueryRowContext(ctx,
        "SELECT agent_id FROM trips WHERE id = ? AND status <> ?",
        tripID, model.TripStatusDeleted).Scan(&ownerID); err != nil {
        return nil, err
    }
    if ownerID != agentID {
        return nil, ErrForbidden
    }
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE trip_id = ? ORDER BY created_at DESC", tripID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
    out := make([]model.Booking, 0)
    for rows.Next() {
        var b model.Booking
        var cancelDate sql.NullTime
        var cancelReason sql.NullString
        if err := rows.Scan(&b.ID, &b.TripID, &b.ClientID, &b.SeatsBooked, &b.TotalPrice,
            &b.Status, &b.PaymentStatus, &cancelDate, &cancelReason, &b.CreatedAt, &b.UpdatedAt); err != nil {
            return nil, err
        }
        if cancelDate.Valid {
            t := cancelDate.Time
            b.CancellationDate = &t
        }
        if cancelReason.Valid {
            s := cancelReason.String
            b.CancellationReason = &s
        }
        out = append(out, b)
    }
    return out, rows.Err()
}
