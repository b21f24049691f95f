package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/procboard/internal/instant"
	"github.com/rpggio/procboard/internal/repository"
)

// Service is the metadata registry: the single source of truth for a
// process's current name and status.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new process service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateRequest defines process creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Start       string
	End         string
	Status      Status
}

// Create registers a new process.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Process, error) {
	name := trimName(req.Name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Start) == "" || strings.TrimSpace(req.End) == "" {
		return nil, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	start, err := instant.Parse(req.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	end, err := instant.Parse(req.End)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end precedes start", ErrInvalidInput)
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	proc := &Process{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		Start:       start,
		End:         end,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, proc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating process: %w", err)
	}

	s.logger.Info("process created", "process", proc.Name, "id", proc.ID)
	return proc, nil
}

// Get fetches a process by name, ignoring case.
func (s *Service) Get(ctx context.Context, name string) (*Process, error) {
	proc, err := s.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProcessNotFound
		}
		return nil, fmt.Errorf("getting process: %w", err)
	}
	return proc, nil
}

// List returns process summaries in creation order.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	procs, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(procs))
	for _, p := range procs {
		summaries = append(summaries, Summary{
			ID:     p.ID,
			Name:   p.Name,
			Start:  p.Start,
			End:    p.End,
			Status: p.Status,
		})
	}
	return summaries, nil
}

// ListAll returns full process records in creation order.
func (s *Service) ListAll(ctx context.Context) ([]Process, error) {
	procs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	return procs, nil
}

// Update applies a partial patch to the named process. A patch that changes
// the name must only be applied by the namespace coordinator, which
// reconciles the derived namespaces afterwards.
func (s *Service) Update(ctx context.Context, name string, patch Patch) (*Process, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	current, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	updated := *current
	if patch.Name != nil {
		newName := trimName(*patch.Name)
		if err := ValidateName(newName); err != nil {
			return nil, err
		}
		if newName != current.Name {
			if err := s.ensureNameFree(ctx, newName, current.ID); err != nil {
				return nil, err
			}
		}
		updated.Name = newName
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Start != nil {
		start, err := instant.Parse(*patch.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
		}
		updated.Start = start
	}
	if patch.End != nil {
		end, err := instant.Parse(*patch.End)
		if err != nil {
			return nil, fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
		}
		updated.End = end
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
		}
		updated.Status = *patch.Status
	}
	if updated.End.Before(updated.Start) {
		return nil, fmt.Errorf("%w: end precedes start", ErrInvalidInput)
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, current.Name, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProcessNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("updating process: %w", err)
	}

	return &updated, nil
}

// Delete removes the metadata row and returns the removed record.
func (s *Service) Delete(ctx context.Context, name string) (*Process, error) {
	proc, err := s.repo.Delete(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProcessNotFound
		}
		return nil, fmt.Errorf("deleting process: %w", err)
	}
	return proc, nil
}

// ensureNameFree fails with ErrDuplicateName when a process other than
// exceptID already holds name, ignoring case.
func (s *Service) ensureNameFree(ctx context.Context, name, exceptID string) error {
	existing, err := s.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("checking process name: %w", err)
	}
	if existing.ID == exceptID {
		return nil
	}
	return ErrDuplicateName
}
