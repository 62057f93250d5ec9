package model

import "time"

// Custom trip request statuses.  The progression is
// pending → assigned → responded → completed|cancelled.
const (
    RequestStatusPending   = "pending"
    RequestStatusAssigned  = "assigned"
    RequestStatusResponded = "responded"
    RequestStatusCompleted = "completed"
    RequestStatusCancelled = "cancelled"
)

// CustomTripRequest is a client's request for a trip that is not on the
// catalog.  An admin assigns it to an agent, the agent responds with a
// proposal, and the client completes or cancels the request.  A job can
// optionally be linked to a request.
//
// Fields:
//  ID          – primary key identifier.
//  ClientID    – requesting client.
//  AgentID     – assigned agent (null until assignment).
//  Destination – desired destination.
//  Description – what the client is looking for.
//  Budget      – optional budget as a decimal string.
//  Response    – the agent's proposal text (null until responded).
//  Status      – see status constants above.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type CustomTripRequest struct {
    ID          uint64    `json:"id"`                 // custom_trip_requests.id
    ClientID    uint64    `json:"client_id"`          // custom_trip_requests.client_id
    AgentID     *uint64   `json:"agent_id,omitempty"` // custom_trip_requests.agent_id (nullable)
    Destination string    `json:"destination"`        // custom_trip_requests.destination
    Description string    `json:"description"`        // custom_trip_requests.description
    Budget      *string   `json:"budget,omitempty"`   // custom_trip_requests.budget (nullable DECIMAL as string)
    Response    *string   `json:"response,omitempty"` // custom_trip_requests.response (nullable)
    Status      string    `json:"status"`             // custom_trip_requests.status
    CreatedAt   time.Time `json:"created_at"`         // custom_trip_requests.created_at
    UpdatedAt   time.Time `json:"updated_at"`         // custom_trip_requests.updated_at
}
