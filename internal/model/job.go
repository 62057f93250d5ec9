package model

import "time"

// Job statuses.  closed and filled are terminal for application
// purposes; a job is never reopened.
const (
    JobStatusOpen   = "open"
    JobStatusClosed = "closed"
    JobStatusFilled = "filled"
)

// Application statuses.  accepted and rejected are terminal.
const (
    ApplicationStatusPending  = "pending"
    ApplicationStatusAccepted = "accepted"
    ApplicationStatusRejected = "rejected"
)

// Job is a short‑term job posted by a client on the marketplace.  The
// token cost is debited from the owner's balance when the job is posted
// and refunded when a job with zero applications is deleted.  Deletion
// is a soft delete via DeletedAt.
//
// Fields:
//  ID          – primary key identifier.
//  ClientID    – user ID of the posting client (owner).
//  RequestID   – optional link to a custom trip request.
//  Title       – short job title.
//  Description – job description.
//  TokenCost   – tokens debited from the owner on posting.
//  Status      – open, closed or filled.
//  DeletedAt   – soft‑delete timestamp (null while visible).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Job struct {
    ID          uint64     `json:"id"`                   // jobs.id
    ClientID    uint64     `json:"client_id"`            // jobs.client_id
    RequestID   *uint64    `json:"request_id,omitempty"` // jobs.request_id (nullable)
    Title       string     `json:"title"`                // jobs.title
    Description string     `json:"description"`          // jobs.description
    TokenCost   int64      `json:"token_cost"`           // jobs.token_cost
    Status      string     `json:"status"`               // jobs.status
    DeletedAt   *time.Time `json:"deleted_at,omitempty"` // jobs.deleted_at (nullable)
    CreatedAt   time.Time  `json:"created_at"`           // jobs.created_at
    UpdatedAt   time.Time  `json:"updated_at"`           // jobs.updated_at
}

// JobApplication links an applicant to a job.  There is at most one
// application per (job, applicant) pair.  Accepting one application
// rejects all siblings and flips the job to filled.
//
// Fields:
//  ID          – primary key identifier.
//  JobID       – job applied to.
//  ApplicantID – applying user.
//  Message     – cover message from the applicant.
//  Status      – pending, accepted or rejected.
//  Feedback    – optional feedback from the owner on accept/reject.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type JobApplication struct {
    ID          uint64    `json:"id"`                 // job_applications.id
    JobID       uint64    `json:"job_id"`             // job_applications.job_id
    ApplicantID uint64    `json:"applicant_id"`       // job_applications.applicant_id
    Message     string    `json:"message"`            // job_applications.message
    Status      string    `json:"status"`             // job_applications.status
    Feedback    *string   `json:"feedback,omitempty"` // job_applications.feedback (nullable)
    CreatedAt   time.Time `json:"created_at"`         // job_applications.created_at
    UpdatedAt   time.Time `json:"updated_at"`         // job_applications.updated_at
}
