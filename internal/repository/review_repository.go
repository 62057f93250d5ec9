package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

// ReviewRepo inserts reviews and maintains the denormalized rating
// aggregates on trips.  The aggregates are recomputed with a full
// AVG/COUNT over the trip's reviews after every insert rather than
// updated incrementally, so they are self-correcting.
type ReviewRepo struct {
    db *sql.DB
}

// NewReviewRepo returns a ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Submit validates that the booking belongs to the client and trip and
// is completed (anything else surfaces as sql.ErrNoRows), rejects a
// second review for the same booking with ErrDuplicateReview, inserts
// the review and overwrites the trip's average_rating/total_reviews
// from a fresh aggregate query.  All of it commits together.
func (r *ReviewRepo) Submit(ctx context.Context, rev *model.Review) error {
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

    var status string
    if err := tx.QueryRowContext(ctx,
        "SELECT status FROM bookings WHERE id = ? AND client_id = ? AND trip_id = ?",
        rev.BookingID, rev.ClientID, rev.TripID).Scan(&status); err != nil {
        return err
    }
    if status != model.BookingStatusCompleted {
        return sql.ErrNoRows
    }

    var n int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM reviews WHERE booking_id = ?", rev.BookingID).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrDuplicateReview
    }

    res, err := tx.ExecContext(ctx,
        "INSERT INTO reviews (booking_id, trip_id, client_id, rating, comment) VALUES (?,?,?,?,?)",
        rev.BookingID, rev.TripID, rev.ClientID, rev.Rating, rev.Comment)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rev.ID = uint64(id)

    // Full recompute, O(reviews) per submission.
    if _, err := tx.ExecContext(ctx,
        `UPDATE trips SET
             average_rating = (SELECT COALESCE(ROUND(AVG(rating), 2), 0) FROM reviews WHERE trip_id = ?),
             total_reviews  = (SELECT COUNT(*) FROM reviews WHERE trip_id = ?)
         WHERE id = ?`,
        rev.TripID, rev.TripID, rev.TripID); err != nil {
        return err
    }

    if err := tx.QueryRowContext(ctx,
        "SELECT created_at FROM reviews WHERE id = ?", rev.ID).Scan(&rev.CreatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ListByTrip returns a trip's reviews newest first.
func (r *ReviewRepo) ListByTrip(ctx context.Context, tripID uint64) ([]model.Review, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT id, booking_id, trip_id, client_id, rating, comment, created_at FROM reviews WHERE trip_id = ? ORDER BY created_at DESC",
        tripID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Review, 0)
    for rows.Next() {
        var rev model.Review
        var comment sql.NullString
        if err := rows.Scan(&rev.ID, &rev.BookingID, &rev.TripID, &rev.ClientID, &rev.Rating, &comment, &rev.CreatedAt); err != nil {
            return nil, err
        }
        if comment.Valid {
            c := comment.String
            rev.Comment = &c
        }
        out = append(out, rev)
    }
    return out, rows.Err()
}
