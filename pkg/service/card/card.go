// Package card implements card lifecycle operations with per-actor access
// scoping. Users operate on their own cards; admins operate on any card.
// Lookups of cards the actor may not see report not-found rather than
// forbidden, so the API does not leak which card ids exist.
package card

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/repository"
	"github.com/google/uuid"
)

// Service manages cards.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a card Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create issues a new card for ownerID. Non-admin actors may only create
// cards for themselves. The secrets are validated here and encrypted by the
// repository on the way down.
func (s *Service) Create(
	ctx context.Context,
	actor domain.Actor,
	ownerID uuid.UUID,
	pan, cvv, pin string,
	expiry time.Time,
) (*domain.Card, error) {
	if ownerID != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	c, err := domain.NewCard(ownerID, pan, cvv, pin, expiry)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cards, err := uow.CardRepository()
		if err != nil {
			return err
		}
		return cards.Create(ctx, c)
	})
	if err != nil {
		s.logger.Error("card creation failed", "ownerID", ownerID, "error", err)
		return nil, err
	}

	s.logger.Info("card created", "cardID", c.ID, "ownerID", ownerID)
	c.PAN, c.CVV, c.PIN = "", "", ""
	return c, nil
}

// Get returns one card without secret fields, scoped to the actor.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Card, error) {
	var c *domain.Card
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = s.getScoped(ctx, uow, actor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the actor's cards, or every card for an admin. Secrets are
// never loaded; callers render masked numbers from Last4.
func (s *Service) List(ctx context.Context, actor domain.Actor) ([]*domain.Card, error) {
	var out []*domain.Card
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cards, err := uow.CardRepository()
		if err != nil {
			return err
		}
		if actor.IsAdmin() {
			out, err = cards.List(ctx)
		} else {
			out, err = cards.ListByOwner(ctx, actor.ID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RequestBlock moves one of the actor's cards to BLOCK_REQUESTED. An admin
// request blocks the card immediately.
func (s *Service) RequestBlock(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Card, error) {
	target := domain.CardStatusBlockRequested
	if actor.IsAdmin() {
		target = domain.CardStatusBlocked
	}

	var c *domain.Card
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cards, err := uow.CardRepository()
		if err != nil {
			return err
		}
		c, err = s.getScoped(ctx, uow, actor, id)
		if err != nil {
			return err
		}
		if err := cards.UpdateStatus(ctx, id, target); err != nil {
			return err
		}
		c.Status = target
		return nil
	})
	if err != nil {
		s.logger.Error("block request failed", "cardID", id, "error", err)
		return nil, err
	}
	s.logger.Info("block requested", "cardID", id, "status", target)
	return c, nil
}

// UpdateStatus sets an explicit status on any card. Admin only.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actor domain.Actor,
	id uuid.UUID,
	status domain.CardStatus,
) (*domain.Card, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if _, err := domain.ParseCardStatus(string(status)); err != nil {
		return nil, err
	}

	var c *domain.Card
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cards, err := uow.CardRepository()
		if err != nil {
			return err
		}
		if err := cards.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		c, err = cards.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("card status updated", "cardID", id, "status", status)
	return c, nil
}

// UpdateExpiry sets a new expiration date on any card. Admin only.
func (s *Service) UpdateExpiry(
	ctx context.Context,
	actor domain.Actor,
	id uuid.UUID,
	expiry time.Time,
) (*domain.Card, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var c *domain.Card
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cards, err := uow.CardRepository()
		if err != nil {
			return err
		}
		if err := cards.UpdateExpiry(ctx, id, expiry); err != nil {
			return err
		}
		c, err = cards.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("card expiry updated", "cardID", id, "expiry", domain.FormatExpiry(expiry))
	return c, nil
}

// Delete removes one of the actor's cards (any card for admins). Ledger
// entries that reference the card remain.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cards, err := uow.CardRepository()
		if err != nil {
			return err
		}
		if _, err := s.getScoped(ctx, uow, actor, id); err != nil {
			return err
		}
		return cards.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("card deletion failed", "cardID", id, "error", err)
		return err
	}
	s.logger.Info("card deleted", "cardID", id)
	return nil
}

// getScoped loads a card through the actor's visibility. For non-admins a
// foreign card is indistinguishable from a missing one.
func (s *Service) getScoped(
	ctx context.Context,
	uow repository.UnitOfWork,
	actor domain.Actor,
	id uuid.UUID,
) (*domain.Card, error) {
	cards, err := uow.CardRepository()
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		c, err := cards.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", id, err)
		}
		return c, nil
	}
	c, err := cards.GetOwned(ctx, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", id, err)
	}
	return c, nil
}
