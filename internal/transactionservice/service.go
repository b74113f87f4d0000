// Package transactionservice manages business logic layer of transactions.
package transactionservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-points/internal/domain"
	"github.com/go-petr/pet-points/pkg/timestamppkg"
)

// Ledger provides the ledger operations needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Ledger interface {
	Append(txs ...domain.Transaction) error
	Projection() domain.Projection
	Transactions() []domain.Transaction
	FindInsertionPoint(ts time.Time) int
}

// Publisher provides event publishing needed by transaction service layer.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service facilitates transaction service layer logic.
type Service struct {
	ledger    Ledger
	publisher Publisher
}

// New returns transaction service struct to manage transaction bussines logic.
func New(l Ledger, p Publisher) *Service {
	return &Service{
		ledger:    l,
		publisher: p,
	}
}

func parse(i int, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	payer := strings.TrimSpace(arg.Payer)
	if payer == "" {
		return domain.Transaction{}, fmt.Errorf("%w: entry %d: payer is required", domain.ErrInvalidTransaction, i)
	}

	points, err := decimal.NewFromString(strings.TrimSpace(arg.Points))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: entry %d: points must be a number", domain.ErrInvalidTransaction, i)
	}

	if err := domain.CheckPoints(points); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidTransaction, i, err)
	}

	ts, err := timestamppkg.Parse(strings.TrimSpace(arg.Timestamp))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidTransaction, i, err)
	}

	return domain.Transaction{
		Payer:     payer,
		Points:    points,
		Timestamp: ts,
	}, nil
}

// Add validates every given transaction and appends them to the ledger as one batch.
// The batch is rejected as a whole if any entry is invalid.
func (s *Service) Add(ctx context.Context, args []domain.CreateTransactionParams) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no transactions given", domain.ErrInvalidTransaction)
	}

	txs := make([]domain.Transaction, 0, len(args))

	for i, arg := range args {
		t, err := parse(i, arg)
		if err != nil {
			l.Info().Err(err).Send()
			return nil, err
		}

		txs = append(txs, t)
	}

	if err := s.ledger.Append(txs...); err != nil {
		l.Info().Err(err).Send()
		return nil, err
	}

	l.Debug().Int("count", len(txs)).Msg("transactions appended")

	event := domain.TransactionsAdded{
		ID:           uuid.New(),
		Transactions: txs,
		OccurredAt:   time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event.ID.String(), event); err != nil {
		l.Error().Err(err).Msg("cannot publish transactions added event")
	}

	return txs, nil
}

// Balances returns points accumulated by every payer over the whole ledger.
func (s *Service) Balances(ctx context.Context) domain.Projection {
	return s.ledger.Projection()
}

// List returns all transactions ordered by timestamp.
func (s *Service) List(ctx context.Context) []domain.Transaction {
	return s.ledger.Transactions()
}

// FindByTimestamp returns the ledger position of a transaction with exactly the
// given timestamp, -1 if there is none.
func (s *Service) FindByTimestamp(ctx context.Context, timestamp string) (int, error) {
	ts, err := timestamppkg.Parse(strings.TrimSpace(timestamp))
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		return -1, fmt.Errorf("%w: %v", domain.ErrInvalidTransaction, err)
	}

	return s.ledger.FindInsertionPoint(ts), nil
}
