package service

import (
	"context"
	"time"

	"portfolio-access-backend/internal/domain"
)

type AccessService interface {
	// Submit stores a new pending request and alerts the site owner. The ID is
	// returned even when the alert email fails; that failure comes back as a
	// *domain.MailDeliveryError alongside the ID.
	Submit(ctx context.Context, sub *domain.Submission) (string, error)
	// Approve issues a temporary password for a pending request and emails it
	// to the requester. On a mail failure the updated request and password are
	// still returned with a *domain.MailDeliveryError; the approval stands.
	Approve(ctx context.Context, requestID string) (*domain.AccessRequest, string, error)
	// Decline marks a pending request declined and notifies the requester.
	Decline(ctx context.Context, requestID string) (*domain.AccessRequest, error)
	// VerifyPassword reports how the password stands and, when it is a valid
	// issued credential, the owner email it was granted to. Sessions opened
	// with the bootstrap master password carry no owner.
	VerifyPassword(ctx context.Context, password string) (domain.VerificationResult, string, error)
}

type EmailService interface {
	NotifyOwnerOfRequest(ctx context.Context, req *domain.AccessRequest) error
	NotifyRequesterApproved(ctx context.Context, req *domain.AccessRequest, password string, expiresAt time.Time) error
	NotifyRequesterDeclined(ctx context.Context, req *domain.AccessRequest) error
	SendTestEmail(ctx context.Context) error
}
