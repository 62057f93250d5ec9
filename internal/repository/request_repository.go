package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

// RequestRepo persists custom trip requests.  Status moves
// pending → assigned → responded → completed|cancelled; each transition
// is guarded by the expected current state and the acting role's
// ownership rules.
type RequestRepo struct {
    db *sql.DB
}

// NewRequestRepo returns a RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

const requestColumns = "id, client_id, agent_id, destination, description, budget, response, status, created_at, updated_at"

func scanRequest(row *sql.Row) (model.CustomTripRequest, error) {
    var cr model.CustomTripRequest
    var agentID sql.NullInt64
    var budget, response sql.NullString
    err := row.Scan(&cr.ID, &cr.ClientID, &agentID, &cr.Destination, &cr.Description,
        &budget, &response, &cr.Status, &cr.CreatedAt, &cr.UpdatedAt)
    if err != nil {
        return model.CustomTripRequest{}, err
    }
    if agentID.Valid {
        v := uint64(agentID.Int64)
        cr.AgentID = &v
    }
    if budget.Valid {
        b := budget.String
        cr.Budget = &b
    }
    if response.Valid {
        s := response.String
        cr.Response = &s
    }
    return cr, nil
}

// Create inserts a pending request for a client.
func (r *RequestRepo) Create(ctx context.Context, cr *model.CustomTripRequest) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO custom_trip_requests (client_id, destination, description, budget, status) VALUES (?,?,?,?,?)",
        cr.ClientID, cr.Destination, cr.Description, cr.Budget, model.RequestStatusPending)
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
    *cr = created
    return nil
}

// GetByID returns a request by id.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.CustomTripRequest, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+requestColumns+" FROM custom_trip_requests WHERE id = ?", id)
    return scanRequest(row)
}

// Assign attaches an agent to a pending request (admin action).
func (r *RequestRepo) Assign(ctx context.Context, requestID, agentID uint64) (model.CustomTripRequest, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE custom_trip_requests SET agent_id = ?, status = ? WHERE id = ? AND status = ?",
        agentID, model.RequestStatusAssigned, requestID, model.RequestStatusPending)
    if err != nil {
        return model.CustomTripRequest{}, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := r.GetByID(ctx, requestID); err != nil {
            return model.CustomTripRequest{}, err
        }
        return model.CustomTripRequest{}, ErrBadTransition
    }
    return r.GetByID(ctx, requestID)
}

// Respond records the assigned agent's proposal.
func (r *RequestRepo) Respond(ctx context.Context, requestID, agentID uint64, response string) (model.CustomTripRequest, error) {
    cr, err := r.GetByID(ctx, requestID)
    if err != nil {
        return model.CustomTripRequest{}, err
    }
    if cr.AgentID == nil || *cr.AgentID != agentID {
        return model.CustomTripRequest{}, ErrForbidden
    }
    if cr.Status != model.RequestStatusAssigned {
        return model.CustomTripRequest{}, ErrBadTransition
    }
    if _, err := r.db.ExecContext(ctx,
        "UPDATE custom_trip_requests SET response = ?, status = ? WHERE id = ?",
        response, model.RequestStatusResponded, requestID); err != nil {
        return model.CustomTripRequest{}, err
    }
    return r.GetByID(ctx, requestID)
}

// Resolve lets the owning client complete or cancel the request.
// Completion requires an agent response; cancellation is allowed from
// any non-terminal state.
func (r *RequestRepo) Resolve(ctx context.Context, requestID, clientID uint64, status string) (model.CustomTripRequest, error) {
    if status != model.RequestStatusCompleted && status != model.RequestStatusCancelled {
        return model.CustomTripRequest{}, ErrBadTransition
    }
    cr, err := r.GetByID(ctx, requestID)
    if err != nil {
        return model.CustomTripRequest{}, err
    }
    if cr.ClientID != clientID {
        return model.CustomTripRequest{}, ErrForbidden
    }
    if cr.Status == model.RequestStatusCompleted || cr.Status == model.RequestStatusCancelled {
        return model.CustomTripRequest{}, ErrBadTransition
    }
    if status == model.RequestStatusCompleted && cr.Status != model.RequestStatusResponded {
        return model.CustomTripRequest{}, ErrBadTransition
    }
    if _, err := r.db.ExecContext(ctx,
        "UPDATE custom_trip_requests SET status = ? WHERE id = ?", status, requestID); err != nil {
        return model.CustomTripRequest{}, err
    }
    return r.GetByID(ctx, requestID)
}

// ListByClient returns a client's requests newest first.
func (r *RequestRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.CustomTripRequest, error) {
    return r.list(ctx, "client_id = ?", clientID)
}

// ListByAgent returns requests assigned to an agent, newest first.
func (r *RequestRepo) ListByAgent(ctx context.Context, agentID uint64) ([]model.CustomTripRequest, error) {
    return r.list(ctx, "agent_id = ?", agentID)
}

// ListPending returns unassigned requests for the admin queue.
func (r *RequestRepo) ListPending(ctx context.Context) ([]model.CustomTripRequest, error) {
    return r.list(ctx, "status = ?", model.RequestStatusPending)
}

func (r *RequestRepo) list(ctx context.Context, where string, arg interface{}) ([]model.CustomTripRequest, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+requestColumns+" FROM custom_trip_requests WHERE "+where+" ORDER BY created_at DESC", arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.CustomTripRequest, 0)
    for rows.Next() {
        var cr model.CustomTripRequest
        var agentID sql.NullInt64
        var budget, response sql.NullString
        if err := rows.Scan(&cr.ID, &cr.ClientID, &agentID, &cr.Destination, &cr.Description,
            &budget, &response, &cr.Status, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
            return nil, err
        }
        if agentID.Valid {
            v := uint64(agentID.Int64)
            cr.AgentID = &v
        }
        if budget.Valid {
            b := budget.String
            cr.Budget = &b
        }
        if response.Valid {
            s := response.String
            cr.Response = &s
        }
        out = append(out, cr)
    }
    return out, rows.Err()
}
