// Package spendservice manages business logic layer of spending points.
package spendservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-points/internal/domain"
	"github.com/go-petr/pet-points/internal/ledger"
)

// Ledger provides the ledger operations needed by spend service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package spendservice
type Ledger interface {
	Update(fn func(tx *ledger.Tx) error) error
}

// Publisher provides event publishing needed by spend service layer.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service facilitates spend service layer logic.
type Service struct {
	ledger    Ledger
	publisher Publisher
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock sets the clock used to timestamp debits.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New returns spend service struct to manage spend bussines logic.
func New(l Ledger, p Publisher, opts ...Option) *Service {
	s := &Service{
		ledger:    l,
		publisher: p,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func parseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, amount)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: must not be negative", domain.ErrInvalidAmount)
	}

	if err := domain.CheckPoints(d); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
	}

	return d, nil
}

// Spend withdraws up to amount points, oldest transactions first, and returns the
// points taken from each payer as negative values. A payer is never taken below
// zero. If the ledger holds fewer spendable points than requested, the result
// holds whatever could be withdrawn. Spending zero is a no-op.
func (s *Service) Spend(ctx context.Context, amount string) ([]domain.PayerPoints, error) {
	l := zerolog.Ctx(ctx)

	requested, err := parseAmount(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return nil, err
	}

	if requested.IsZero() {
		return []domain.PayerPoints{}, nil
	}

	var spent []domain.PayerPoints

	err = s.ledger.Update(func(tx *ledger.Tx) error {
		debits := allocate(tx, requested, s.debitTime(tx))
		if len(debits) == 0 {
			return nil
		}

		start := tx.Len()

		if err := tx.Append(debits...); err != nil {
			return err
		}

		spent = summarize(debits, tx.ProjectionFrom(start))

		return nil
	})
	if err != nil {
		l.Error().Err(err).Send()
		return nil, err
	}

	if spent == nil {
		spent = []domain.PayerPoints{}
	}

	l.Debug().Str("requested", requested.String()).Int("payers", len(spent)).Msg("points spent")

	if len(spent) > 0 {
		event := domain.PointsSpent{
			ID:         uuid.New(),
			Requested:  requested,
			Spent:      spent,
			OccurredAt: s.now().UTC(),
		}

		if err := s.publisher.Publish(ctx, event.ID.String(), event); err != nil {
			l.Error().Err(err).Msg("cannot publish points spent event")
		}
	}

	return spent, nil
}

// debitTime returns the timestamp for new debits. It is never earlier than the
// newest transaction, so debits always land at the end of the ledger.
func (s *Service) debitTime(tx *ledger.Tx) time.Time {
	now := s.now().UTC()

	if latest := tx.Latest(); now.Before(latest) {
		return latest
	}

	return now
}

// allocate walks the ledger oldest first and returns the debits needed to spend
// requested points. Balances are tracked locally from the cached projection so
// the ledger is not changed while it is walked.
func allocate(tx *ledger.Tx, requested decimal.Decimal, at time.Time) []domain.Transaction {
	var (
		remaining = requested
		balances  = tx.Projection()
		debits    []domain.Transaction
	)

	for i := 0; i < tx.Len(); i++ {
		if !remaining.IsPositive() {
			break
		}

		t := tx.At(i)

		balance := balances[t.Payer]
		if !balance.IsPositive() {
			continue
		}

		take := decimal.Min(t.Points, remaining, balance)
		if take.IsZero() {
			continue
		}

		debits = append(debits, domain.Transaction{
			Payer:     t.Payer,
			Points:    take.Neg(),
			Timestamp: at,
		})

		balances[t.Payer] = balance.Sub(take)
		remaining = remaining.Sub(take)
	}

	return debits
}

// summarize orders the moved points by the first debit of each payer and drops
// payers whose movements cancelled out.
func summarize(debits []domain.Transaction, moved domain.Projection) []domain.PayerPoints {
	var (
		spent = make([]domain.PayerPoints, 0, len(moved))
		seen  = make(map[string]bool, len(moved))
	)

	for _, d := range debits {
		if seen[d.Payer] {
			continue
		}

		seen[d.Payer] = true

		if points := moved[d.Payer]; !points.IsZero() {
			spent = append(spent, domain.PayerPoints{Payer: d.Payer, Points: points})
		}
	}

	return spent
}
