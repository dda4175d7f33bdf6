// Package memory provides the in-memory repositories. All state is volatile:
// a process restart loses every request and credential, which is the accepted
// durability model for this service.
package memory

import (
	"portfolio-access-backend/internal/clock"
	"portfolio-access-backend/internal/repository"
)

type Store struct {
	repository.RequestRepository
	repository.CredentialRepository
}

func NewStore(clk clock.Clock) *Store {
	return &Store{
		RequestRepository:    NewRequestRepository(),
		CredentialRepository: NewCredentialRepository(clk),
	}
}
