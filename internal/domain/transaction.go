// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction indicates that a transaction lacks a payer, a parseable timestamp or numeric points.
var ErrInvalidTransaction = errors.New("invalid transaction")

// ErrPointsOutOfRange indicates points with too many digits or too large an exponent.
var ErrPointsOutOfRange = errors.New("points out of range")

const (
	maxPointsExponent = 18
	maxPointsBits     = 127
)

// CheckPoints returns ErrPointsOutOfRange unless d has an exponent within ±18
// and a coefficient of at most 127 bits.
func CheckPoints(d decimal.Decimal) error {
	if e := d.Exponent(); e < -maxPointsExponent || e > maxPointsExponent {
		return ErrPointsOutOfRange
	}

	if d.Coefficient().BitLen() > maxPointsBits {
		return ErrPointsOutOfRange
	}

	return nil
}

// Transaction holds a single points movement for a payer. Once appended to the ledger it is never changed.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	Payer     string          `json:"payer"`
	Points    decimal.Decimal `json:"points"` // positive is a credit, negative is a debit
	Timestamp time.Time       `json:"timestamp"`
}

// CreateTransactionParams is the raw input data to add a transaction.
type CreateTransactionParams struct {
	Payer     string `json:"payer"`
	Points    string `json:"points"`
	Timestamp string `json:"timestamp"`
}

// Projection maps a payer to the points accumulated over a range of the ledger.
type Projection map[string]decimal.Decimal

// Copy returns an independent copy of the projection.
func (p Projection) Copy() Projection {
	c := make(Projection, len(p))
	for payer, points := range p {
		c[payer] = points
	}

	return c
}
