package list

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/procboard/internal/namespace"
	"github.com/rpggio/procboard/internal/repository"
)

// Service manages the lists of a process.
type Service struct {
	namespaces Namespaces
	repo       Repository
	cards      CardPurger
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new list service.
func NewService(namespaces Namespaces, repo Repository, cards CardPurger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{namespaces: namespaces, repo: repo, cards: cards, logger: logger, now: time.Now}
}

// List returns the process's lists. A process that never stored a list has none.
func (s *Service) List(ctx context.Context, process string) ([]List, error) {
	var lists []List
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindLists)
		if err != nil || !ok {
			return err
		}
		lists, err = s.repo.List(ctx, h.Namespace)
		if err != nil {
			return fmt.Errorf("listing lists: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []List{}
	}
	return lists, nil
}

// Create adds a list to the process.
func (s *Service) Create(ctx context.Context, process, title string) (*List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	l := &List{ID: uuid.NewString(), Title: title, CreatedAt: now, UpdatedAt: now}
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, err := scope.Ensure(ctx, namespace.KindLists)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, h.Namespace, l); err != nil {
			return fmt.Errorf("creating list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Update renames a list.
func (s *Service) Update(ctx context.Context, process, id, title string) (*List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	var updated *List
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindLists)
		if err != nil {
			return err
		}
		if !ok {
			return ErrListNotFound
		}
		current, err := s.get(ctx, h.Namespace, id)
		if err != nil {
			return err
		}
		current.Title = title
		current.UpdatedAt = s.now().UTC()
		if err := s.repo.Update(ctx, h.Namespace, current); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrListNotFound
			}
			return fmt.Errorf("updating list: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a list and every card that references it. Card writes on
// the process wait for the cascade, so no card is created against the list
// while it is being removed.
func (s *Service) Delete(ctx context.Context, process, id string) (*DeleteResult, error) {
	result := &DeleteResult{}
	err := s.namespaces.UseExclusive(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindLists)
		if err != nil {
			return err
		}
		if !ok {
			return ErrListNotFound
		}
		l, err := s.get(ctx, h.Namespace, id)
		if err != nil {
			return err
		}

		cards, ok, err := scope.Lookup(ctx, namespace.KindCards)
		if err != nil {
			return err
		}
		if ok {
			n, err := s.cards.DeleteByList(ctx, cards.Namespace, id)
			if err != nil {
				return fmt.Errorf("deleting cards of list %s: %w", id, err)
			}
			result.CardsRemoved = n
		}

		if err := s.repo.Delete(ctx, h.Namespace, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrListNotFound
			}
			return fmt.Errorf("deleting list: %w", err)
		}
		result.List = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("list deleted", "process", process, "list", id, "cards_removed", result.CardsRemoved)
	return result, nil
}

func (s *Service) get(ctx context.Context, ns, id string) (*List, error) {
	l, err := s.repo.Get(ctx, ns, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("getting list: %w", err)
	}
	return l, nil
}
