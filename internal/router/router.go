package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/handler"
    "github.com/iliyamo/travel-booking-platform/internal/middleware"
    "github.com/iliyamo/travel-booking-platform/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, while /v1/me requires
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout accepts either a bearer access token (revoke all sessions)
    // or a refresh_token in the body (revoke one session), so it is not
    // behind the JWT middleware.
    g.POST("/logout", a.Logout)

    auth := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleClient, model.RoleAgent, model.RoleAdmin),
    )
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// trip catalog, trip reviews, the open-job feed and the contact form.
// The passed middlewares (response cache, rate limiter) wrap only this
// group.
func RegisterPublic(e *echo.Echo, t *handler.TripHandler, j *handler.JobHandler, ct *handler.ContactHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1", mw...)
    g.GET("/trips", t.ListPublic)
    g.GET("/trips/:id", t.Get)
    g.GET("/trips/:id/reviews", t.ListReviews)
    g.GET("/jobs/available", j.ListAvailable)
    g.GET("/jobs/:id", j.Get)
    g.POST("/contact", ct.Submit)
}

// RegisterUser registers endpoints available to every authenticated
// role: the token wallet, notifications and the applicant side of the
// job marketplace.
func RegisterUser(e *echo.Echo, tk *handler.TokenHandler, n *handler.NotificationHandler, j *handler.JobHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleClient, model.RoleAgent, model.RoleAdmin),
    )

    // ---- Token wallet ----
    g.GET("/tokens/balance", tk.Balance)
    g.GET("/tokens/packages", tk.Packages)
    g.POST("/tokens/purchase", tk.Purchase)
    g.GET("/tokens/history", tk.History)

    // ---- Notifications ----
    g.GET("/notifications", n.List)
    g.POST("/notifications/:id/read", n.MarkRead)

    // ---- Job applications (applicant side) ----
    g.POST("/jobs/:id/apply", j.Apply)
    g.GET("/applications", j.MyApplications)
}

// RegisterClient registers client-scoped endpoints: bookings, reviews,
// custom trip requests and the owner side of the job marketplace.
func RegisterClient(e *echo.Echo, b *handler.BookingHandler, r *handler.RequestHandler, j *handler.JobHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleClient),
    )

    // ---- Bookings ----
    g.POST("/trips/:id/book", b.Book)
    g.GET("/bookings", b.ListMine)
    g.GET("/bookings/:id", b.Get)
    g.POST("/bookings/:id/cancel", b.Cancel)
    g.POST("/trips/:id/review", b.SubmitReview)

    // ---- Custom trip requests ----
    g.POST("/requests", r.Create)
    g.GET("/requests", r.ListMine)
    g.POST("/requests/:id/resolve", r.Resolve)

    // ---- Jobs (owner side) ----
    g.POST("/jobs", j.Post)
    g.GET("/jobs/mine", j.ListMine)
    g.PATCH("/jobs/:id", j.Update)
    g.POST("/jobs/:id/close", j.Close)
    g.DELETE("/jobs/:id", j.Delete)
    g.GET("/jobs/:id/applications", j.Applications)
    g.POST("/jobs/:id/applicants/:applicantId/accept", j.Accept)
    g.POST("/jobs/:id/applicants/:applicantId/reject", j.Reject)
}

// RegisterAgent registers agent-scoped endpoints: trip management and
// the agent side of custom trip requests.
func RegisterAgent(e *echo.Echo, t *handler.TripHandler, b *handler.BookingHandler, r *handler.RequestHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAgent),
    )

    // ---- Trips ----
    g.POST("/trips", t.Create)
    g.GET("/trips/mine", t.ListMine)
    g.PUT("/trips/:id", t.Update)
    g.PATCH("/trips/:id", t.Update)
    g.DELETE("/trips/:id", t.Delete)
    g.GET("/trips/:id/bookings", b.TripBookings)

    // ---- Custom trip requests ----
    g.GET("/requests/assigned", r.Assigned)
    g.POST("/requests/:id/respond", r.Respond)

    // Booking status is an external trigger shared with admins.
    sg := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAgent, model.RoleAdmin),
    )
    sg.PATCH("/bookings/:id/status", b.SetStatus)
}

// RegisterAdmin registers the admin panel under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, r *handler.RequestHandler, jwtSecret string) {
    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin),
    )

    g.POST("/tokens/grant", a.GrantTokens)
    g.GET("/tokens/stats", a.TokenStats)
    g.GET("/users", a.ListUsers)
    g.PATCH("/users/:id/status", a.SetUserStatus)
    g.GET("/requests/pending", r.Pending)
    g.POST("/requests/:id/assign", r.Assign)
    g.GET("/contact", a.ContactMessages)
}
