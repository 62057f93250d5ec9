package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

// JobRepo owns the job and job_applications tables and couples the job
// lifecycle to the token ledger: posting a job debits the owner,
// deleting an application-free job refunds him.  Each logical
// operation (post+debit, accept+fill+reject-siblings, delete+refund)
// runs in a single transaction so a failing step leaves nothing behind.
type JobRepo struct {
    db     *sql.DB
    ledger *LedgerRepo
}

// NewJobRepo returns a JobRepo bound to the given database and ledger.
func NewJobRepo(db *sql.DB, ledger *LedgerRepo) *JobRepo {
    return &JobRepo{db: db, ledger: ledger}
}

const jobColumns = "id, client_id, request_id, title, description, token_cost, status, deleted_at, created_at, updated_at"

func scanJob(row *sql.Row) (model.Job, error) {
    var j model.Job
    var reqID sql.NullInt64
    var deletedAt sql.NullTime
    err := row.Scan(&j.ID, &j.ClientID, &reqID, &j.Title, &j.Description, &j.TokenCost, &j.Status, &deletedAt, &j.CreatedAt, &j.UpdatedAt)
    if err != nil {
        return model.Job{}, err
    }
    if reqID.Valid {
        v := uint64(reqID.Int64)
        j.RequestID = &v
    }
    if deletedAt.Valid {
        t := deletedAt.Time
        j.DeletedAt = &t
    }
    return j, nil
}

// Create inserts an open job and debits token_cost from the owner in
// the same transaction.  The usage entry references the new job ID.
// When the owner cannot afford the cost the insert is rolled back and
// ErrInsufficientTokens is returned with no job row left behind.
func (r *JobRepo) Create(ctx context.Context, j *model.Job) error {
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

    res, err := tx.ExecContext(ctx,
        "INSERT INTO jobs (client_id, request_id, title, description, token_cost, status) VALUES (?,?,?,?,?,?)",
        j.ClientID, j.RequestID, j.Title, j.Description, j.TokenCost, model.JobStatusOpen)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    j.ID = uint64(id)

    if err := r.ledger.SpendTx(ctx, tx, j.ClientID, j.TokenCost, &j.ID, "job_post", "Posted job: "+j.Title); err != nil {
        return err
    }

    row := tx.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", j.ID)
    created, err := scanJob(row)
    if err != nil {
        return err
    }
    *j = created

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID returns a job that has not been soft-deleted.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (model.Job, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+jobColumns+" FROM jobs WHERE id = ? AND deleted_at IS NULL", id)
    return scanJob(row)
}

// Apply inserts a pending application.  The job must exist, not be
// soft-deleted and still be open; anything else is reported as
// sql.ErrNoRows so callers answer "job not found".  A second
// application by the same applicant fails with ErrDuplicateApplication
// (pre-insert check, backed by the unique key on (job_id, applicant_id)).
func (r *JobRepo) Apply(ctx context.Context, jobID, applicantID uint64, message string) (model.JobApplication, error) {
    job, err := r.GetByID(ctx, jobID)
    if err != nil {
        return model.JobApplication{}, err
    }
    if job.Status != model.JobStatusOpen {
        return model.JobApplication{}, sql.ErrNoRows
    }
    var n int
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM job_applications WHERE job_id = ? AND applicant_id = ?",
        jobID, applicantID).Scan(&n); err != nil {
        return model.JobApplication{}, err
    }
    if n > 0 {
        return model.JobApplication{}, ErrDuplicateApplication
    }
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO job_applications (job_id, applicant_id, message, status) VALUES (?,?,?,?)",
        jobID, applicantID, message, model.ApplicationStatusPending)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return model.JobApplication{}, ErrDuplicateApplication
        }
        return model.JobApplication{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.JobApplication{}, err
    }
    return r.getApplication(ctx, uint64(id))
}

const applicationColumns = "id, job_id, applicant_id, message, status, feedback, created_at, updated_at"

func scanApplication(row *sql.Row) (model.JobApplication, error) {
    var a model.JobApplication
    var feedback sql.NullString
    err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Message, &a.Status, &feedback, &a.CreatedAt, &a.UpdatedAt)
    if err != nil {
        return model.JobApplication{}, err
    }
    if feedback.Valid {
        f := feedback.String
        a.Feedback = &f
    }
    return a, nil
}

func (r *JobRepo) getApplication(ctx context.Context, id uint64) (model.JobApplication, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+applicationColumns+" FROM job_applications WHERE id = ?", id)
    return scanApplication(row)
}

// Accept marks the applicant's application accepted, flips the job to
// filled and rejects every sibling application with the fixed feedback
// "Position has been filled".  The three writes share one transaction.
// ErrForbidden when ownerID does not own the job; sql.ErrNoRows when
// the job or the application is missing.
func (r *JobRepo) Accept(ctx context.Context, jobID, applicantID, ownerID uint64, feedback string) (model.JobApplication, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.JobApplication{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var clientID uint64
    if err := tx.QueryRowContext(ctx,
        "SELECT client_id FROM jobs WHERE id = ? AND deleted_at IS NULL FOR UPDATE", jobID).Scan(&clientID); err != nil {
        return model.JobApplication{}, err
    }
    if clientID != ownerID {
        return model.JobApplication{}, ErrForbidden
    }

    var appID uint64
    if err := tx.QueryRowContext(ctx,
        "SELECT id FROM job_applications WHERE job_id = ? AND applicant_id = ?",
        jobID, applicantID).Scan(&appID); err != nil {
        return model.JobApplication{}, err
    }

    if _, err := tx.ExecContext(ctx,
        "UPDATE job_applications SET status = ?, feedback = ? WHERE id = ?",
        model.ApplicationStatusAccepted, feedback, appID); err != nil {
        return model.JobApplication{}, err
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE jobs SET status = ? WHERE id = ?",
        model.JobStatusFilled, jobID); err != nil {
        return model.JobApplication{}, err
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE job_applications SET status = ?, feedback = ? WHERE job_id = ? AND id <> ?",
        model.ApplicationStatusRejected, "Position has been filled", jobID, appID); err != nil {
        return model.JobApplication{}, err
    }

    row := tx.QueryRowContext(ctx,
        "SELECT "+applicationColumns+" FROM job_applications WHERE id = ?", appID)
    accepted, err := scanApplication(row)
    if err != nil {
        return model.JobApplication{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.JobApplication{}, err
    }
    committed = true
    return accepted, nil
}

// Reject marks a single application rejected with feedback.  The job
// status is untouched so other applicants stay in the running.
func (r *JobRepo) Reject(ctx context.Context, jobID, applicantID, ownerID uint64, feedback string) (model.JobApplication, error) {
    var clientID uint64
    if err := r.db.QueryRowContext(ctx,
        "SELECT client_id FROM jobs WHERE id = ? AND deleted_at IS NULL", jobID).Scan(&clientID); err != nil {
        return model.JobApplication{}, err
    }
    if clientID != ownerID {
        return model.JobApplication{}, ErrForbidden
    }
    var appID uint64
    if err := r.db.QueryRowContext(ctx,
        "SELECT id FROM job_applications WHERE job_id = ? AND applicant_id = ?",
        jobID, applicantID).Scan(&appID); err != nil {
        return model.JobApplication{}, err
    }
    if _, err := r.db.ExecContext(ctx,
        "UPDATE job_applications SET status = ?, feedback = ? WHERE id = ?",
        model.ApplicationStatusRejected, feedback, appID); err != nil {
        return model.JobApplication{}, err
    }
    return r.getApplication(ctx, appID)
}

// SoftDelete marks a job deleted and refunds its token cost to the
// owner in one transaction.  Jobs with any application cannot be
// deleted (ErrHasApplications).
func (r *JobRepo) SoftDelete(ctx context.Context, jobID, ownerID uint64) (model.Job, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Job{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    row := tx.QueryRowContext(ctx,
        "SELECT "+jobColumns+" FROM jobs WHERE id = ? AND deleted_at IS NULL FOR UPDATE", jobID)
    job, err := scanJob(row)
    if err != nil {
        return model.Job{}, err
    }
    if job.ClientID != ownerID {
        return model.Job{}, ErrForbidden
    }
    var n int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM job_applications WHERE job_id = ?", jobID).Scan(&n); err != nil {
        return model.Job{}, err
    }
    if n > 0 {
        return model.Job{}, ErrHasApplications
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE jobs SET deleted_at = NOW() WHERE id = ?", jobID); err != nil {
        return model.Job{}, err
    }
    if err := r.ledger.RefundTx(ctx, tx, ownerID, job.TokenCost, &jobID, "job_delete", "Refund for deleted job: "+job.Title); err != nil {
        return model.Job{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Job{}, err
    }
    committed = true
    return job, nil
}

// JobPatch carries the updatable fields of a job.  Nil pointers leave
// the column unchanged.  Changing token_cost never adjusts the ledger.
type JobPatch struct {
    Title       *string
    Description *string
    TokenCost   *int64
}

// Update applies a patch to an open job owned by ownerID.
func (r *JobRepo) Update(ctx context.Context, jobID, ownerID uint64, patch JobPatch) (model.Job, error) {
    job, err := r.GetByID(ctx, jobID)
    if err != nil {
        return model.Job{}, err
    }
    if job.ClientID != ownerID {
        return model.Job{}, ErrForbidden
    }
    if job.Status != model.JobStatusOpen {
        return model.Job{}, ErrNotOpen
    }
    sets := make([]string, 0, 3)
    args := make([]interface{}, 0, 4)
    if patch.Title != nil {
        sets = append(sets, "title = ?")
        args = append(args, *patch.Title)
    }
    if patch.Description != nil {
        sets = append(sets, "description = ?")
        args = append(args, *patch.Description)
    }
    if patch.TokenCost != nil {
        sets = append(sets, "token_cost = ?")
        args = append(args, *patch.TokenCost)
    }
    if len(sets) == 0 {
        return job, nil
    }
    args = append(args, jobID)
    if _, err := r.db.ExecContext(ctx,
        "UPDATE jobs SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
        return model.Job{}, err
    }
    return r.GetByID(ctx, jobID)
}

// Close moves an open job to the terminal closed state without any
// token adjustment.
func (r *JobRepo) Close(ctx context.Context, jobID, ownerID uint64) (model.Job, error) {
    job, err := r.GetByID(ctx, jobID)
    if err != nil {
        return model.Job{}, err
    }
    if job.ClientID != ownerID {
        return model.Job{}, ErrForbidden
    }
    if job.Status != model.JobStatusOpen {
        return model.Job{}, ErrNotOpen
    }
    if _, err := r.db.ExecContext(ctx,
        "UPDATE jobs SET status = ? WHERE id = ?", model.JobStatusClosed, jobID); err != nil {
        return model.Job{}, err
    }
    return r.GetByID(ctx, jobID)
}

// JobListing is a job plus its denormalized applicant count, computed
// via join at read time (the count is not stored).
type JobListing struct {
    model.Job
    ApplicantCount int `json:"applicant_count"`
}

// ListAvailable returns open, non-deleted jobs newest first.
func (r *JobRepo) ListAvailable(ctx context.Context, limit int) ([]JobListing, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT j.id, j.client_id, j.request_id, j.title, j.description, j.token_cost, j.status, j.deleted_at, j.created_at, j.updated_at,
                COUNT(a.id)
         FROM jobs j
         LEFT JOIN job_applications a ON a.job_id = j.id
         WHERE j.status = ? AND j.deleted_at IS NULL
         GROUP BY j.id
         ORDER BY j.created_at DESC
         LIMIT ?`,
        model.JobStatusOpen, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectListings(rows)
}

// ListByOwner returns all non-deleted jobs posted by a client, newest
// first, with applicant counts.
func (r *JobRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]JobListing, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT j.id, j.client_id, j.request_id, j.title, j.description, j.token_cost, j.status, j.deleted_at, j.created_at, j.updated_at,
                COUNT(a.id)
         FROM jobs j
         LEFT JOIN job_applications a ON a.job_id = j.id
         WHERE j.client_id = ? AND j.deleted_at IS NULL
         GROUP BY j.id
         ORDER BY j.created_at DESC`,
        ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]JobListing, error) {
    out := make([]JobListing, 0)
    for rows.Next() {
        var l JobListing
        var reqID sql.NullInt64
        var deletedAt sql.NullTime
        if err := rows.Scan(&l.ID, &l.ClientID, &reqID, &l.Title, &l.Description, &l.TokenCost, &l.Status, &deletedAt, &l.CreatedAt, &l.UpdatedAt, &l.ApplicantCount); err != nil {
            return nil, err
        }
        if reqID.Valid {
            v := uint64(reqID.Int64)
            l.RequestID = &v
        }
        if deletedAt.Valid {
            t := deletedAt.Time
            l.DeletedAt = &t
        }
        out = append(out, l)
    }
    return out, rows.Err()
}

// ListApplicationsByJob returns a job's applications for its owner.
func (r *JobRepo) ListApplicationsByJob(ctx context.Context, jobID, ownerID uint64) ([]model.JobApplication, error) {
    var clientID uint64
    if err := r.db.QueryRowContext(ctx,
        "SELECT client_id FROM jobs WHERE id = ? AND deleted_at IS NULL", jobID).Scan(&clientID); err != nil {
        return nil, err
    }
    if clientID != ownerID {
        return nil, ErrForbidden
    }
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+applicationColumns+" FROM job_applications WHERE job_id = ? ORDER BY created_at DESC", jobID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectApplications(rows)
}

// ListApplicationsByApplicant returns everything a user has applied to.
func (r *JobRepo) ListApplicationsByApplicant(ctx context.Context, applicantID uint64) ([]model.JobApplication, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+applicationColumns+" FROM job_applications WHERE applicant_id = ? ORDER BY created_at DESC", applicantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectApplications(rows)
}

func collectApplications(rows *sql.Rows) ([]model.JobApplication, error) {
    out := make([]model.JobApplication, 0)
    for rows.Next() {
        var a model.JobApplication
        var feedback sql.NullString
        if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Message, &a.Status, &feedback, &a.CreatedAt, &a.UpdatedAt); err != nil {
            return nil, err
        }
        if feedback.Valid {
            f := feedback.String
            a.Feedback = &f
        }
        out = append(out, a)
    }
    return out, rows.Err()
}
