package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

// NotificationRepo stores best-effort in-app notifications.  Writes
// are fire-and-forget from the caller's point of view: they never run
// inside the transaction of the operation that triggered them, and a
// failed insert must not fail the request.
type NotificationRepo struct {
    db *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts one notification row.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO notifications (user_id, type, title, body) VALUES (?,?,?,?)",
        n.UserID, n.Type, n.Title, n.Body)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    n.ID = uint64(id)
    return nil
}

// ListByUser returns a user's notifications newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    rows, err := r.db.QueryContext(ctx,
        "SELECT id, user_id, type, title, body, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
        userID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Notification, 0)
    for rows.Next() {
        var n model.Notification
        if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, n)
    }
    return out, rows.Err()
}

// MarkRead flags a notification read for its owner.  Returns
// sql.ErrNoRows when the notification does not exist or belongs to
// someone else.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID uint64) error {
    res, err := r.db.ExecContext(ctx,
        "UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?",
        notificationID, userID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists int
        if err := r.db.QueryRowContext(ctx,
            "SELECT 1 FROM notifications WHERE id = ? AND user_id = ?",
            notificationID, userID).Scan(&exists); err != nil {
            return err
        }
    }
    return nil
}

// ContactRepo stores public contact-form submissions.
type ContactRepo struct {
    db *sql.DB
}

// NewContactRepo returns a ContactRepo bound to the given database.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

// Create inserts a contact message.
func (r *ContactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO contact_messages (name, email, subject, message) VALUES (?,?,?,?)",
        m.Name, m.Email, m.Subject, m.Message)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// List returns contact messages newest first for admins.
func (r *ContactRepo) List(ctx context.Context, limit int) ([]model.ContactMessage, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    rows, err := r.db.QueryContext(ctx,
        "SELECT id, name, email, subject, message, created_at FROM contact_messages ORDER BY created_at DESC LIMIT ?",
        limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.ContactMessage, 0)
    for rows.Next() {
        var m model.ContactMessage
        if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}
