package handler

import (
    "context"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/model"
    "github.com/iliyamo/travel-booking-platform/internal/repository"
)

// JobHandler covers the job marketplace: posting (which debits tokens),
// browsing, applications and the owner-side accept/reject flow.
type JobHandler struct {
    Jobs *repository.JobRepo
}

func NewJobHandler(j *repository.JobRepo) *JobHandler {
    return &JobHandler{Jobs: j}
}

type postJobReq struct {
    Title       string  `json:"title"`
    Description string  `json:"description"`
    TokenCost   int64   `json:"token_cost"`
    RequestID   *uint64 `json:"request_id"`
}

type updateJobReq struct {
    Title       *string `json:"title"`
    Description *string `json:"description"`
    TokenCost   *int64  `json:"token_cost"`
}

type applyReq struct {
    Message string `json:"message"`
}

type feedbackReq struct {
    Feedback string `json:"feedback"`
}

// Post creates an open job and debits token_cost from the caller's
// balance atomically; insufficient tokens leave no job behind.
func (h *JobHandler) Post(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    var req postJobReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    req.Title = strings.TrimSpace(req.Title)
    if req.Title == "" {
        return fail(c, http.StatusBadRequest, "title required")
    }
    if req.TokenCost <= 0 {
        return fail(c, http.StatusBadRequest, "token_cost must be positive")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    job := model.Job{
        ClientID:    uid,
        RequestID:   req.RequestID,
        Title:       req.Title,
        Description: strings.TrimSpace(req.Description),
        TokenCost:   req.TokenCost,
    }
    if err := h.Jobs.Create(ctx, &job); err != nil {
        return mapError(c, err, "job not found")
    }
    return respond(c, http.StatusCreated, "job posted", job)
}

// ListAvailable is the public marketplace feed of open jobs.
func (h *JobHandler) ListAvailable(c echo.Context) error {
    limit, _ := strconv.Atoi(c.QueryParam("limit"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    jobs, err := h.Jobs.ListAvailable(ctx, limit)
    if err != nil {
        return mapError(c, err, "jobs not found")
    }
    return respond(c, http.StatusOK, "available jobs", jobs)
}

// Get returns one job by ID.
func (h *JobHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    job, err := h.Jobs.GetByID(ctx, id)
    if err != nil {
        return mapError(c, err, "job not found")
    }
    return respond(c, http.StatusOK, "job", job)
}

// ListMine returns the caller's own postings with applicant counts.
func (h *JobHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    jobs, err := h.Jobs.ListByOwner(ctx, uid)
    if err != nil {
        return mapError(c, err, "jobs not found")
    }
    return respond(c, http.StatusOK, "my jobs", jobs)
}

// Apply submits an application to an open job. Non-open and deleted
// jobs are reported as missing, duplicates as a conflict.
func (h *JobHandler) Apply(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req applyReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    app, err := h.Jobs.Apply(ctx, jobID, uid, strings.TrimSpace(req.Message))
    if err != nil {
        return mapError(c, err, "job not found")
    }
    if job, err := h.Jobs.GetByID(ctx, jobID); err == nil {
        notify(job.ClientID, model.NotificationJobApplication,
            "New application",
            fmt.Sprintf("Your job %q received a new application.", job.Title))
    }
    return respond(c, http.StatusCreated, "application submitted", app)
}

// Accept marks one application accepted, rejects all siblings and
// fills the job, all in one transaction.
func (h *JobHandler) Accept(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    applicantID, err := pathID(c, "applicantId")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req feedbackReq
    _ = c.Bind(&req)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    app, err := h.Jobs.Accept(ctx, jobID, applicantID, uid, strings.TrimSpace(req.Feedback))
    if err != nil {
        return mapError(c, err, "job or application not found")
    }
    notify(applicantID, model.NotificationJobFilled,
        "Application accepted",
        fmt.Sprintf("Your application for job #%d was accepted.", jobID))
    return respond(c, http.StatusOK, "applicant accepted", app)
}

// Reject marks a single pending application rejected; the job stays
// open.
func (h *JobHandler) Reject(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    applicantID, err := pathID(c, "applicantId")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req feedbackReq
    _ = c.Bind(&req)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    app, err := h.Jobs.Reject(ctx, jobID, applicantID, uid, strings.TrimSpace(req.Feedback))
    if err != nil {
        return mapError(c, err, "job or application not found")
    }
    return respond(c, http.StatusOK, "applicant rejected", app)
}

// Delete soft deletes a job with zero applications and refunds the
// posting cost in the same transaction.
func (h *JobHandler) Delete(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    job, err := h.Jobs.SoftDelete(ctx, jobID, uid)
    if err != nil {
        return mapError(c, err, "job not found")
    }
    return respond(c, http.StatusOK, "job deleted, tokens refunded", job)
}

// Update patches an open job's title, description or token cost.
func (h *JobHandler) Update(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req updateJobReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.TokenCost != nil && *req.TokenCost <= 0 {
        return fail(c, http.StatusBadRequest, "token_cost must be positive")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    job, err := h.Jobs.Update(ctx, jobID, uid, repository.JobPatch{
        Title:       req.Title,
        Description: req.Description,
        TokenCost:   req.TokenCost,
    })
    if err != nil {
        return mapError(c, err, "job not found")
    }
    return respond(c, http.StatusOK, "job updated", job)
}

// Close flips an open job to closed without touching applications.
func (h *JobHandler) Close(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    job, err := h.Jobs.Close(ctx, jobID, uid)
    if err != nil {
        return mapError(c, err, "job not found")
    }
    return respond(c, http.StatusOK, "job closed", job)
}

// Applications lists a job's applications for its owner.
func (h *JobHandler) Applications(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    apps, err := h.Jobs.ListApplicationsByJob(ctx, jobID, uid)
    if err != nil {
        return mapError(c, err, "job not found")
    }
    return respond(c, http.StatusOK, "applications", apps)
}

// MyApplications lists everything the caller has applied to.
func (h *JobHandler) MyApplications(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    apps, err := h.Jobs.ListApplicationsByApplicant(ctx, uid)
    if err != nil {
        return mapError(c, err, "applications not found")
    }
    return respond(c, http.StatusOK, "my applications", apps)
}
