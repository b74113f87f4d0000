package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates that a spend amount is negative or not a number.
var ErrInvalidAmount = errors.New("invalid amount")

// PayerPoints holds the points moved for one payer.
type PayerPoints struct {
	Payer  string          `json:"payer"`
	Points decimal.Decimal `json:"points"`
}

// TransactionsAdded is published after a batch of transactions is appended.
type TransactionsAdded struct {
	ID           uuid.UUID     `json:"id"`
	Transactions []Transaction `json:"transactions"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

// PointsSpent is published after a spend withdrew points from at least one payer.
type PointsSpent struct {
	ID         uuid.UUID       `json:"id"`
	Requested  decimal.Decimal `json:"requested"`
	Spent      []PayerPoints   `json:"spent"`
	OccurredAt time.Time       `json:"occurred_at"`
}
