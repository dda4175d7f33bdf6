package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDeclined RequestStatus = "declined"
)

// AccessRequest is a visitor's request for temporary portfolio access.
// It is created pending and moves to approved or declined exactly once.
type AccessRequest struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Company        string        `json:"company,omitempty"`
	Reason         string        `json:"reason"`
	OtherReason    string        `json:"other_reason,omitempty"`
	Timestamp      time.Time     `json:"timestamp"` // submit time as reported by the client
	IP             string        `json:"ip"`
	UserAgent      string        `json:"user_agent"`
	Status         RequestStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
	DeclinedAt     *time.Time    `json:"declined_at,omitempty"`
	IssuedPassword string        `json:"issued_password,omitempty"`
}

// Processed reports whether the request has reached a terminal status.
func (r *AccessRequest) Processed() bool {
	return r.Status != RequestStatusPending
}

// Submission carries the fields a visitor provides when requesting access,
// plus the connection metadata recorded alongside them.
type Submission struct {
	Name        string
	Email       string
	Company     string
	Reason      string
	OtherReason string
	Timestamp   time.Time
	IP          string
	UserAgent   string
}
