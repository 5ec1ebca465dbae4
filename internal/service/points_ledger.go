package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
	"gorm.io/gorm"
)

// PointsLedger is the only writer of users.points. Every change to the cached
// total is paired with an immutable ledger entry in the same transaction.
type PointsLedger struct {
	users  repository.UserRepository
	ledger repository.PointLedgerRepository
	tx     repository.TxManager
	inTx   bool
}

func NewPointsLedger(users repository.UserRepository, ledger repository.PointLedgerRepository, tx repository.TxManager) *PointsLedger {
	return &PointsLedger{users: users, ledger: ledger, tx: tx}
}

// WithTx binds the ledger to a caller-owned transaction.
func (l *PointsLedger) WithTx(tx *gorm.DB) *PointsLedger {
	return &PointsLedger{
		users:  l.users.WithTx(tx),
		ledger: l.ledger.WithTx(tx),
		tx:     l.tx,
		inTx:   true,
	}
}

// IncrementPoints adds delta to the actor's total, appends a ledger entry and
// returns the new total. It does not award badges.
func (l *PointsLedger) IncrementPoints(ctx context.Context, actorID string, delta int64, reason, reference string) (int64, error) {
	switch {
	case actorID == "":
		return 0, invalid("actorId", "is required")
	case delta == 0:
		return 0, invalid("delta", "must not be zero")
	case reason == "":
		return 0, invalid("reason", "is required")
	}
	if l.inTx {
		return l.increment(ctx, actorID, delta, reason, reference)
	}
	var total int64
	err := l.tx.Transaction(ctx, func(tx *gorm.DB) error {
		t, err := l.WithTx(tx).increment(ctx, actorID, delta, reason, reference)
		total = t
		return err
	})
	if err != nil {
		return 0, classify("increment points", err)
	}
	return total, nil
}

func (l *PointsLedger) increment(ctx context.Context, actorID string, delta int64, reason, reference string) (int64, error) {
	if err := l.users.IncrementPoints(ctx, actorID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrActorNotFound
		}
		return 0, err
	}
	entry := &model.PointLedgerEntry{
		UserID:    actorID,
		Delta:     delta,
		Reason:    reason,
		Reference: reference,
	}
	if err := l.ledger.Append(ctx, entry); err != nil {
		return 0, err
	}
	return l.users.GetTotalPoints(ctx, actorID)
}

// TotalPoints returns the cached total after checking it against the ledger.
func (l *PointsLedger) TotalPoints(ctx context.Context, actorID string) (int64, error) {
	cached, err := l.users.GetTotalPoints(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrActorNotFound
		}
		return 0, err
	}
	sum, err := l.ledger.SumByUser(ctx, actorID)
	if err != nil {
		return 0, err
	}
	if sum != cached {
		return cached, fmt.Errorf("%w: actor %s cached=%d ledger=%d", ErrLedgerMismatch, actorID, cached, sum)
	}
	return cached, nil
}

// Reconcile rewrites the cached total from the ledger sum and returns the
// previous and the repaired values.
func (l *PointsLedger) Reconcile(ctx context.Context, actorID string) (before, after int64, err error) {
	err = l.tx.Transaction(ctx, func(tx *gorm.DB) error {
		users := l.users.WithTx(tx)
		if _, err := users.LockForUpdate(ctx, actorID); err != nil {
			return err
		}
		b, err := users.GetTotalPoints(ctx, actorID)
		if err != nil {
			return err
		}
		sum, err := l.ledger.WithTx(tx).SumByUser(ctx, actorID)
		if err != nil {
			return err
		}
		before, after = b, sum
		if b == sum {
			return nil
		}
		return users.SetTotalPoints(ctx, actorID, sum)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, ErrActorNotFound
	}
	if err != nil {
		return 0, 0, classify("reconcile points", err)
	}
	return before, after, nil
}

func (l *PointsLedger) History(ctx context.Context, actorID string, limit int) ([]model.PointLedgerEntry, error) {
	if _, err := l.users.Get(ctx, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return l.ledger.ListByUser(ctx, actorID, limit)
}
