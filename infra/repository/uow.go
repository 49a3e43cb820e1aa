// Package repository provides the GORM-backed unit of work tying the card,
// transfer and user repositories to one database session.
package repository

import (
	"context"

	"github.com/dkurilov/bankcards/infra/repository/card"
	"github.com/dkurilov/bankcards/infra/repository/transfer"
	"github.com/dkurilov/bankcards/infra/repository/user"
	"github.com/dkurilov/bankcards/pkg/crypto"
	repo "github.com/dkurilov/bankcards/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Every repository handed out inside Do is bound to the same
// *gorm.DB transaction, which is what makes the transfer engine's
// debit + credit + ledger append atomic.
type UoW struct {
	db    *gorm.DB
	tx    *gorm.DB
	codec *crypto.Codec
}

// NewUoW creates a UoW over the given connection. The codec is threaded into
// every card repository so encryption stays a persistence-layer concern.
func NewUoW(db *gorm.DB, codec *crypto.Codec) *UoW {
	return &UoW{db: db, codec: codec}
}

// Do runs fn inside one database transaction. An error from fn rolls the
// transaction back and is returned unchanged, so domain errors survive the
// boundary.
func (u *UoW) Do(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, codec: u.codec})
	})
}

// CardRepository implements repository.UnitOfWork.
func (u *UoW) CardRepository() (repo.CardRepository, error) {
	return card.New(u.session(), u.codec), nil
}

// TransferRepository implements repository.UnitOfWork.
func (u *UoW) TransferRepository() (repo.TransferRepository, error) {
	return transfer.New(u.session()), nil
}

// UserRepository implements repository.UnitOfWork.
func (u *UoW) UserRepository() (repo.UserRepository, error) {
	return user.New(u.session()), nil
}

// session returns the transaction when inside Do, the bare connection otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}
