package memory

import (
	"context"
	"sync"
	"time"

	"portfolio-access-backend/internal/domain"
	"portfolio-access-backend/internal/repository"
)

// requestRepository keeps access requests in a map guarded by a mutex; the
// sweeper runs concurrently with request handling, so every access must take
// the lock. Entries are copied on the way in and out so callers can only
// mutate through Update.
type requestRepository struct {
	mu       sync.Mutex
	requests map[string]*domain.AccessRequest
}

func NewRequestRepository() repository.RequestRepository {
	return &requestRepository{
		requests: make(map[string]*domain.AccessRequest),
	}
}

func (r *requestRepository) Put(ctx context.Context, req *domain.AccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *requestRepository) Update(ctx context.Context, req *domain.AccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[req.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *requestRepository) UpdateIfPending(ctx context.Context, req *domain.AccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != domain.RequestStatusPending {
		return domain.ErrAlreadyProcessed
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.requests, id)
	return nil
}

func (r *requestRepository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, req := range r.requests {
		if req.CreatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
