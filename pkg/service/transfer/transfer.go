// Package transfer implements the engine that moves funds between two cards
// of the same owner with strict consistency guarantees.
//
// An attempt passes an ordered validation chain (distinct cards, positive
// amount, ownership, ACTIVE status, sufficient funds); failures short-circuit,
// return a typed domain error and never reach the ledger. Attempts that enter
// execution debit, credit and append exactly one COMPLETED ledger row inside a
// single database transaction.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/money"
	"github.com/dkurilov/bankcards/pkg/repository"
	"github.com/google/uuid"
)

// Service executes transfers. Safe for concurrent use.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a transfer Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Execute moves amount from the caller's card fromID to the caller's card
// toID. On success it returns the COMPLETED ledger entry. Validation failures
// return one of domain.ErrSameCard, domain.ErrInvalidAmount,
// domain.ErrCardNotFound, domain.ErrCardNotActive or
// domain.ErrInsufficientFunds, possibly wrapped with the failing side; none
// of them leave a trace in the ledger or touch a balance.
//
// Once execution begins it runs to completion or rolls back as a whole: the
// two balance writes and the ledger append share one transaction, and row
// locks are taken in ascending card-id order regardless of direction, so two
// concurrent transfers over the same pair cannot deadlock.
func (s *Service) Execute(
	ctx context.Context,
	actor domain.Actor,
	fromID, toID uuid.UUID,
	amount money.Amount,
) (*domain.Transfer, error) {
	logger := s.logger.With(
		"userID", actor.ID,
		"fromCardID", fromID,
		"toCardID", toID,
		"amount", amount.String(),
	)

	if fromID == toID {
		return nil, domain.ErrSameCard
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var entry *domain.Transfer
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cards, err := uow.CardRepository()
		if err != nil {
			return err
		}

		from, to, err := s.lockPair(ctx, cards, fromID, toID)
		if err != nil {
			return err
		}

		if !actor.CanAccess(from.OwnerID) {
			return fmt.Errorf("source card: %w", domain.ErrCardNotFound)
		}
		if !actor.CanAccess(to.OwnerID) {
			return fmt.Errorf("target card: %w", domain.ErrCardNotFound)
		}
		if from.Status != domain.CardStatusActive {
			return fmt.Errorf("source card: %w", domain.ErrCardNotActive)
		}
		if to.Status != domain.CardStatusActive {
			return fmt.Errorf("target card: %w", domain.ErrCardNotActive)
		}
		if from.Balance < amount {
			return domain.ErrInsufficientFunds
		}
		if to.Balance.Cents() > math.MaxInt64-amount.Cents() {
			return money.ErrAmountOverflow
		}

		from.Balance -= amount
		to.Balance += amount

		// Persist in ascending id order, mirroring the lock order.
		for _, c := range orderByID(from, to) {
			if err := cards.UpdateBalance(ctx, c.ID, c.Balance); err != nil {
				return err
			}
		}

		ledger, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		entry = domain.NewCompletedTransfer(actor.ID, from.ID, to.ID, amount)
		return ledger.Create(ctx, entry)
	})
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return nil, err
	}
	logger.Info("transfer completed", "transferID", entry.ID)
	return entry, nil
}

// lockPair takes row locks on both cards in ascending id order and returns
// them as (from, to). A missing row is reported for the side it was requested
// as, with not-found semantics.
func (s *Service) lockPair(
	ctx context.Context,
	cards repository.CardRepository,
	fromID, toID uuid.UUID,
) (from, to *domain.Card, err error) {
	first, second := fromID, toID
	if lessID(second, first) {
		first, second = second, first
	}

	a, err := cards.GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, fmt.Errorf("%s card: %w", sideOf(first, fromID), err)
	}
	b, err := cards.GetForUpdate(ctx, second)
	if err != nil {
		return nil, nil, fmt.Errorf("%s card: %w", sideOf(second, fromID), err)
	}

	if a.ID == fromID {
		return a, b, nil
	}
	return b, a, nil
}

func sideOf(id, fromID uuid.UUID) string {
	if id == fromID {
		return "source"
	}
	return "target"
}

// lessID is the total order over card identifiers used for lock and write
// ordering.
func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func orderByID(a, b *domain.Card) [2]*domain.Card {
	if lessID(b.ID, a.ID) {
		return [2]*domain.Card{b, a}
	}
	return [2]*domain.Card{a, b}
}
