package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio-access-backend/internal/clock"
	"portfolio-access-backend/internal/domain"
	"portfolio-access-backend/internal/logger"
	"portfolio-access-backend/internal/repository"
	"portfolio-access-backend/internal/security"
)

type accessService struct {
	requests    repository.RequestRepository
	credentials repository.CredentialRepository
	email       EmailService
	clock       clock.Clock
	passwordTTL time.Duration
	// masterHash is an optional bcrypt hash of a bootstrap password that
	// verifies without a stored credential. Empty disables it.
	masterHash string
}

func NewAccessService(
	requests repository.RequestRepository,
	credentials repository.CredentialRepository,
	email EmailService,
	clk clock.Clock,
	passwordTTL time.Duration,
	masterHash string,
) AccessService {
	return &accessService{
		requests:    requests,
		credentials: credentials,
		email:       email,
		clock:       clk,
		passwordTTL: passwordTTL,
		masterHash:  masterHash,
	}
}

func (s *accessService) Submit(ctx context.Context, sub *domain.Submission) (string, error) {
	var missing []string
	if sub.Name == "" {
		missing = append(missing, "name")
	}
	if sub.Email == "" {
		missing = append(missing, "email")
	}
	if sub.Reason == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return "", &domain.ValidationError{Missing: missing}
	}

	now := s.clock.Now()
	timestamp := sub.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}

	req := &domain.AccessRequest{
		ID:          security.NewRequestID(),
		Name:        sub.Name,
		Email:       sub.Email,
		Company:     sub.Company,
		Reason:      sub.Reason,
		OtherReason: sub.OtherReason,
		Timestamp:   timestamp,
		IP:          sub.IP,
		UserAgent:   sub.UserAgent,
		Status:      domain.RequestStatusPending,
		CreatedAt:   now,
	}

	if err := s.requests.Put(ctx, req); err != nil {
		return "", err
	}
	logger.Info("Access request submitted", "request_id", req.ID, "email", req.Email)

	// The store write is the durable effect. A failed owner alert is reported
	// back but never rolls the request back; it can still be approved later.
	if err := s.email.NotifyOwnerOfRequest(ctx, req); err != nil {
		return req.ID, &domain.MailDeliveryError{Op: "submit", Err: err}
	}

	return req.ID, nil
}

func (s *accessService) Approve(ctx context.Context, requestID string) (*domain.AccessRequest, string, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if req.Processed() {
		return nil, "", domain.ErrAlreadyProcessed
	}

	password := security.NewPassword()
	now := s.clock.Now()
	req.Status = domain.RequestStatusApproved
	req.ApprovedAt = &now
	req.IssuedPassword = password

	// The compare-and-swap is the transition: concurrent approve/decline calls
	// can all read pending above, but only one gets past this line. The
	// credential is issued after winning so a loser never issues one.
	if err := s.requests.UpdateIfPending(ctx, req); err != nil {
		return nil, "", err
	}

	cred, err := s.credentials.Issue(ctx, password, req.Email, req.ID, now.Add(s.passwordTTL))
	if err != nil {
		return nil, "", err
	}
	logger.Info("Access request approved", "request_id", req.ID, "expires_at", cred.ExpiresAt)

	if err := s.email.NotifyRequesterApproved(ctx, req, password, cred.ExpiresAt); err != nil {
		return req, password, &domain.MailDeliveryError{Op: "approve", Err: err}
	}

	return req, password, nil
}

func (s *accessService) Decline(ctx context.Context, requestID string) (*domain.AccessRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Processed() {
		return nil, domain.ErrAlreadyProcessed
	}

	now := s.clock.Now()
	req.Status = domain.RequestStatusDeclined
	req.DeclinedAt = &now
	if err := s.requests.UpdateIfPending(ctx, req); err != nil {
		return nil, err
	}
	logger.Info("Access request declined", "request_id", req.ID)

	if err := s.email.NotifyRequesterDeclined(ctx, req); err != nil {
		return req, &domain.MailDeliveryError{Op: "decline", Err: err}
	}

	return req, nil
}

func (s *accessService) VerifyPassword(ctx context.Context, password string) (domain.VerificationResult, string, error) {
	if password == "" {
		return domain.VerificationInvalid, "", nil
	}

	if s.masterHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.masterHash), []byte(password)) == nil {
			logger.Warn("Master password used to open the gate")
			return domain.VerificationValid, "", nil
		}
	}

	return s.credentials.Verify(ctx, password)
}
