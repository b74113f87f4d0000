// Package ledger manages the in-memory, append-only store of points transactions.
//
// Transactions are kept sorted by their event timestamp and the payer balance
// projection is rebuilt on every write, so reads never re-sum the ledger.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-points/internal/domain"
)

// Ledger is the source of truth for all transactions. A single mutex guards
// every operation, reads included.
type Ledger struct {
	mu sync.Mutex
	tx Tx
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		tx: Tx{projection: domain.Projection{}},
	}
}

// Append validates the whole batch, then appends it, re-sorts the ledger and
// rebuilds the projection. Nothing is appended if any entry is invalid.
// Missing IDs are generated and written back into txs.
func (l *Ledger) Append(txs ...domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tx.Append(txs...)
}

// Projection returns the cached projection over the full ledger.
func (l *Ledger) Projection() domain.Projection {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tx.Projection()
}

// ProjectionFrom returns the projection over the transactions starting at index.
func (l *Ledger) ProjectionFrom(index int) domain.Projection {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tx.ProjectionFrom(index)
}

// FindInsertionPoint returns the index of a transaction with exactly the given
// timestamp or -1 if there is none.
func (l *Ledger) FindInsertionPoint(ts time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tx.FindInsertionPoint(ts)
}

// Transactions returns a copy of the ledger in timestamp order.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tx.Transactions()
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tx.Len()
}

// Update runs fn with exclusive access to the ledger. No other operation can
// observe or change the ledger until fn returns.
func (l *Ledger) Update(fn func(tx *Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return fn(&l.tx)
}

// Tx gives access to the ledger state while its lock is held.
// It must not be retained after the Update callback returns.
type Tx struct {
	txs        []domain.Transaction
	projection domain.Projection
}

func validate(txs []domain.Transaction) error {
	if len(txs) == 0 {
		return fmt.Errorf("%w: no transactions given", domain.ErrInvalidTransaction)
	}

	for i, t := range txs {
		if strings.TrimSpace(t.Payer) == "" {
			return fmt.Errorf("%w: entry %d: payer is required", domain.ErrInvalidTransaction, i)
		}

		if t.Timestamp.IsZero() {
			return fmt.Errorf("%w: entry %d: timestamp is required", domain.ErrInvalidTransaction, i)
		}

		if err := domain.CheckPoints(t.Points); err != nil {
			return fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidTransaction, i, err)
		}
	}

	return nil
}

// Append is Ledger.Append for use inside Update.
func (tx *Tx) Append(txs ...domain.Transaction) error {
	if err := validate(txs); err != nil {
		return err
	}

	for i := range txs {
		if txs[i].ID == uuid.Nil {
			txs[i].ID = uuid.New()
		}
	}

	tx.txs = append(tx.txs, txs...)

	// Stable so that equal timestamps keep their insertion order.
	sort.SliceStable(tx.txs, func(i, j int) bool {
		return tx.txs[i].Timestamp.Before(tx.txs[j].Timestamp)
	})

	tx.projection = project(tx.txs)

	return nil
}

// Projection is Ledger.Projection for use inside Update.
func (tx *Tx) Projection() domain.Projection {
	return tx.projection.Copy()
}

// ProjectionFrom is Ledger.ProjectionFrom for use inside Update.
func (tx *Tx) ProjectionFrom(index int) domain.Projection {
	if index < 0 {
		index = 0
	}

	if index >= len(tx.txs) {
		return domain.Projection{}
	}

	return project(tx.txs[index:])
}

// FindInsertionPoint is Ledger.FindInsertionPoint for use inside Update.
// Among equal timestamps the first one is returned.
func (tx *Tx) FindInsertionPoint(ts time.Time) int {
	lo, hi := 0, len(tx.txs)

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if tx.txs[mid].Timestamp.Before(ts) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo < len(tx.txs) && tx.txs[lo].Timestamp.Equal(ts) {
		return lo
	}

	return -1
}

// Transactions is Ledger.Transactions for use inside Update.
func (tx *Tx) Transactions() []domain.Transaction {
	txs := make([]domain.Transaction, len(tx.txs))
	copy(txs, tx.txs)

	return txs
}

// At returns the transaction at index i in timestamp order.
func (tx *Tx) At(i int) domain.Transaction {
	return tx.txs[i]
}

// Len is Ledger.Len for use inside Update.
func (tx *Tx) Len() int {
	return len(tx.txs)
}

// Latest returns the newest timestamp in the ledger, zero if it is empty.
func (tx *Tx) Latest() time.Time {
	if len(tx.txs) == 0 {
		return time.Time{}
	}

	return tx.txs[len(tx.txs)-1].Timestamp
}

func project(txs []domain.Transaction) domain.Projection {
	p := domain.Projection{}

	for _, t := range txs {
		balance, ok := p[t.Payer]
		if !ok {
			balance = decimal.Zero
		}

		p[t.Payer] = balance.Add(t.Points)
	}

	return p
}
