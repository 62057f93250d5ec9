package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

// TripRepo provides persistence for trips.  Trips belong to agents;
// available_seats is the denormalized remaining capacity maintained by
// the booking repository, and the rating aggregates are maintained by
// the review repository.
type TripRepo struct {
    db *sql.DB
}

// NewTripRepo returns a TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

const tripColumns = "id, agent_id, title, description, destination, price, max_seats, available_seats, start_date, end_date, status, average_rating, total_reviews, created_at, updated_at"

func scanTrip(row *sql.Row) (model.Trip, error) {
    var t model.Trip
    err := row.Scan(&t.ID, &t.AgentID, &t.Title, &t.Description, &t.Destination, &t.Price,
        &t.MaxSeats, &t.AvailableSeats, &t.StartDate, &t.EndDate, &t.Status,
        &t.AverageRating, &t.TotalReviews, &t.CreatedAt, &t.UpdatedAt)
    return t, err
}

// Create inserts an active trip with available_seats = max_seats.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO trips (agent_id, title, description, destination, price, max_seats, available_seats, start_date, end_date, status)
         VALUES (?,?,?,?,?,?,?,?,?,?)`,
        t.AgentID, t.Title, t.Description, t.Destination, t.Price,
        t.MaxSeats, t.MaxSeats, t.StartDate, t.EndDate, model.TripStatusActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    created, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *t = created
    return nil
}

// GetByID returns a trip that has not been soft-deleted.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (model.Trip, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+tripColumns+" FROM trips WHERE id = ? AND status <> ?", id, model.TripStatusDeleted)
    return scanTrip(row)
}

// ListActive returns active trips newest first for public browsing,
// optionally filtered by destination substring.
func (r *TripRepo) ListActive(ctx context.Context, destination string, limit int) ([]model.Trip, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    q := "SELECT " + tripColumns + " FROM trips WHERE status = ?"
    args := []interface{}{model.TripStatusActive}
    if destination != "" {
        q += " AND destination LIKE ?"
        args = append(args, "%"+destination+"%")
    }
    q += " ORDER BY created_at DESC LIMIT ?"
    args = append(args, limit)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectTrips(rows)
}

// ListByAgent returns all non-deleted trips owned by an agent.
func (r *TripRepo) ListByAgent(ctx context.Context, agentID uint64) ([]model.Trip, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+tripColumns+" FROM trips WHERE agent_id = ? AND status <> ? ORDER BY created_at DESC",
        agentID, model.TripStatusDeleted)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectTrips(rows)
}

func collectTrips(rows *sql.Rows) ([]model.Trip, error) {
    out := make([]model.Trip, 0)
    for rows.Next() {
        var t model.Trip
        if err := rows.Scan(&t.ID, &t.AgentID, &t.Title, &t.Description, &t.Destination, &t.Price,
            &t.MaxSeats, &t.AvailableSeats, &t.StartDate, &t.EndDate, &t.Status,
            &t.AverageRating, &t.TotalReviews, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// TripPatch carries the updatable fields of a trip.  Nil pointers
// leave the column unchanged.  Existing bookings keep the total price
// captured when they were created even when Price changes.
type TripPatch struct {
    Title       *string
    Description *string
    Destination *string
    Price       *string
    Status      *string // active or inactive only
}

// Update applies a patch to a trip owned by agentID.
func (r *TripRepo) Update(ctx context.Context, tripID, agentID uint64, patch TripPatch) (model.Trip, error) {
    t, err := r.GetByID(ctx, tripID)
    if err != nil {
        return model.Trip{}, err
    }
    if t.AgentID != agentID {
        return model.Trip{}, ErrForbidden
    }
    sets := make([]string, 0, 5)
    args := make([]interface{}, 0, 6)
    if patch.Title != nil {
        sets = append(sets, "title = ?")
        args = append(args, *patch.Title)
    }
    if patch.Description != nil {
        sets = append(sets, "description = ?")
        args = append(args, *patch.Description)
    }
    if patch.Destination != nil {
        sets = append(sets, "destination = ?")
        args = append(args, *patch.Destination)
    }
    if patch.Price != nil {
        sets = append(sets, "price = ?")
        args = append(args, *patch.Price)
    }
    if patch.Status != nil {
        if *patch.Status != model.TripStatusActive && *patch.Status != model.TripStatusInactive {
            return model.Trip{}, ErrBadTransition
        }
        sets = append(sets, "status = ?")
        args = append(args, *patch.Status)
    }
    if len(sets) == 0 {
        return t, nil
    }
    args = append(args, tripID)
    if _, err := r.db.ExecContext(ctx,
        "UPDATE trips SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
        return model.Trip{}, err
    }
    return r.GetByID(ctx, tripID)
}

// SoftDelete marks a trip deleted.  Trips with any booking cannot be
// deleted (ErrHasBookings); the check and the status flip share a
// transaction.
func (r *TripRepo) SoftDelete(ctx context.Context, tripID, agentID uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var ownerID uint64
    if err := tx.QueryRowContext(ctx,
        "SELECT agent_id FROM trips WHERE id = ? AND status <> ? FOR UPDATE",
        tripID, model.TripStatusDeleted).Scan(&ownerID); err != nil {
        return err
    }
    if ownerID != agentID {
        return ErrForbidden
    }
    var n int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM bookings WHERE trip_id = ?", tripID).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrHasBookings
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE trips SET status = ? WHERE id = ?", model.TripStatusDeleted, tripID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
