package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/procboard/internal/instant"
	"github.com/rpggio/procboard/internal/namespace"
	"github.com/rpggio/procboard/internal/repository"
)

// Service manages the cards of a process and enforces the completion rule.
type Service struct {
	namespaces Namespaces
	repo       Repository
	lists      ListIndex
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new card service.
func NewService(namespaces Namespaces, repo Repository, lists ListIndex, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{namespaces: namespaces, repo: repo, lists: lists, logger: logger, now: time.Now}
}

// List returns the process's cards, optionally only those of one list.
func (s *Service) List(ctx context.Context, process string, opts ListOptions) ([]Card, error) {
	var cards []Card
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindCards)
		if err != nil || !ok {
			return err
		}
		cards, err = s.repo.List(ctx, h.Namespace, opts)
		if err != nil {
			return fmt.Errorf("listing cards: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []Card{}
	}
	return cards, nil
}

// Get fetches one card.
func (s *Service) Get(ctx context.Context, process, id string) (*Card, error) {
	var c *Card
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindCards)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCardNotFound
		}
		c, err = s.get(ctx, h.Namespace, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create adds a card to an existing list of the process.
func (s *Service) Create(ctx context.Context, process string, req CreateRequest) (*Card, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	listID := strings.TrimSpace(req.ListID)
	if listID == "" {
		return nil, fmt.Errorf("%w: list_id is required", ErrInvalidInput)
	}
	if !req.Assignee.Valid() {
		return nil, fmt.Errorf("%w: unknown assignee %q", ErrInvalidInput, req.Assignee)
	}
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	start, err := parseInstant("start", req.Start)
	if err != nil {
		return nil, err
	}
	due, err := parseInstant("due", req.Due)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &Card{
		ID:          uuid.NewString(),
		ListID:      listID,
		Title:       title,
		Assignee:    req.Assignee,
		Description: req.Description,
		Status:      status,
		Start:       start,
		Due:         due,
		Extra:       withoutNil(req.Extra),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyCompletion(c, "", now)

	err = s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		if err := s.requireList(ctx, scope, listID); err != nil {
			return err
		}
		h, err := scope.Ensure(ctx, namespace.KindCards)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, h.Namespace, c); err != nil {
			return fmt.Errorf("creating card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial patch to a card. Moving into done stamps the
// completion fields; moving out of done clears them.
func (s *Service) Update(ctx context.Context, process, id string, patch Patch) (*Card, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	var updated *Card
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindCards)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCardNotFound
		}
		current, err := s.get(ctx, h.Namespace, id)
		if err != nil {
			return err
		}

		next, err := s.apply(*current, patch)
		if err != nil {
			return err
		}
		if next.ListID != current.ListID {
			if err := s.requireList(ctx, scope, next.ListID); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		applyCompletion(&next, current.Status, now)
		next.UpdatedAt = now

		if err := s.repo.Update(ctx, h.Namespace, &next); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("updating card: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("card updated", "process", process, "card", id, "status", updated.Status)
	return updated, nil
}

// Delete removes a card and returns it.
func (s *Service) Delete(ctx context.Context, process, id string) (*Card, error) {
	var removed *Card
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindCards)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCardNotFound
		}
		removed, err = s.get(ctx, h.Namespace, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, h.Namespace, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("deleting card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *Service) apply(c Card, patch Patch) (Card, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return Card{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		c.Title = title
	}
	if patch.ListID != nil {
		listID := strings.TrimSpace(*patch.ListID)
		if listID == "" {
			return Card{}, fmt.Errorf("%w: list_id cannot be empty", ErrInvalidInput)
		}
		c.ListID = listID
	}
	if patch.Assignee != nil {
		if !patch.Assignee.Valid() {
			return Card{}, fmt.Errorf("%w: unknown assignee %q", ErrInvalidInput, *patch.Assignee)
		}
		c.Assignee = *patch.Assignee
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return Card{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
		}
		c.Status = *patch.Status
	}
	if patch.Start != nil {
		start, err := parseInstant("start", *patch.Start)
		if err != nil {
			return Card{}, err
		}
		c.Start = start
	}
	if patch.Due != nil {
		due, err := parseInstant("due", *patch.Due)
		if err != nil {
			return Card{}, err
		}
		c.Due = due
	}
	if len(patch.Extra) > 0 {
		extra := make(map[string]any, len(c.Extra)+len(patch.Extra))
		for k, v := range c.Extra {
			extra[k] = v
		}
		for k, v := range patch.Extra {
			if v == nil {
				delete(extra, k)
				continue
			}
			extra[k] = v
		}
		c.Extra = extra
	}
	return c, nil
}

func (s *Service) requireList(ctx context.Context, scope namespace.Scope, listID string) error {
	h, ok, err := scope.Lookup(ctx, namespace.KindLists)
	if err != nil {
		return err
	}
	if ok {
		ok, err = s.lists.Exists(ctx, h.Namespace, listID)
		if err != nil {
			return fmt.Errorf("checking list: %w", err)
		}
	}
	if !ok {
		return fmt.Errorf("%w: list %q does not exist", ErrInvalidInput, listID)
	}
	return nil
}

func (s *Service) get(ctx context.Context, ns, id string) (*Card, error) {
	c, err := s.repo.Get(ctx, ns, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("getting card: %w", err)
	}
	return c, nil
}

func parseInstant(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := instant.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, err)
	}
	return &t, nil
}

func withoutNil(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		if v != nil && !serverKeys[k] {
			out[k] = v
		}
	}
	return out
}
