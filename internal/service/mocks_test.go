package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"portfolio-access-backend/internal/domain"
)

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) NotifyOwnerOfRequest(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockEmailService) NotifyRequesterApproved(ctx context.Context, req *domain.AccessRequest, password string, expiresAt time.Time) error {
	args := m.Called(ctx, req, password, expiresAt)
	return args.Error(0)
}

func (m *MockEmailService) NotifyRequesterDeclined(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockEmailService) SendTestEmail(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
