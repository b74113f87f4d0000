package transactionservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-points/internal/domain"
	"github.com/go-petr/pet-points/internal/ledger"
)

func exampleParams() []domain.CreateTransactionParams {
	return []domain.CreateTransactionParams{
		{Payer: "DANNON", Points: "1000", Timestamp: "2020-11-02T14:00Z"},
		{Payer: "UNILEVER", Points: "200", Timestamp: "2020-10-31T11:00Z"},
		{Payer: "DANNON", Points: "-200", Timestamp: "2020-10-31T15:00Z"},
		{Payer: "MILLER COORS", Points: "10000", Timestamp: "2020-11-01T14:00Z"},
		{Payer: "DANNON", Points: "300", Timestamp: "2020-10-31T10:00Z"},
	}
}

func TestAddExample(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := NewMockPublisher(ctrl)
	var event domain.TransactionsAdded

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.AssignableToTypeOf(domain.TransactionsAdded{})).
		Times(1).
		DoAndReturn(func(_ context.Context, key string, e any) error {
			event = e.(domain.TransactionsAdded)
			require.Equal(t, event.ID.String(), key)

			return nil
		})

	l := ledger.New()
	service := New(l, publisher)

	got, err := service.Add(context.Background(), exampleParams())
	require.NoError(t, err)
	require.Len(t, got, 5)

	want := domain.Transaction{
		Payer:     "DANNON",
		Points:    decimal.NewFromInt(1000),
		Timestamp: time.Date(2020, 11, 2, 14, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got[0], cmpopts.IgnoreFields(domain.Transaction{}, "ID")); diff != "" {
		t.Errorf("got[0] returned unexpected difference (-want +got):\n%s", diff)
	}

	wantBalances := domain.Projection{
		"DANNON":       decimal.NewFromInt(1100),
		"UNILEVER":     decimal.NewFromInt(200),
		"MILLER COORS": decimal.NewFromInt(10000),
	}
	if diff := cmp.Diff(wantBalances, service.Balances(context.Background())); diff != "" {
		t.Errorf("service.Balances() returned unexpected difference (-want +got):\n%s", diff)
	}

	list := service.List(context.Background())
	require.Len(t, list, 5)
	require.Equal(t, "DANNON", list[0].Payer)
	require.True(t, list[0].Points.Equal(decimal.NewFromInt(300)))

	// Returned transactions carry the IDs the ledger stored.
	stored := make(map[uuid.UUID]bool)
	for _, tr := range list {
		stored[tr.ID] = true
	}

	for i, tr := range got {
		require.NotEqual(t, uuid.Nil, tr.ID, "got[%d].ID", i)
		require.True(t, stored[tr.ID], "got[%d].ID %v not in ledger", i, tr.ID)
	}

	require.NotEqual(t, uuid.Nil, event.ID)
	require.Len(t, event.Transactions, 5)
}

func TestAddInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		args    []domain.CreateTransactionParams
		wantMsg string
	}{
		{
			name:    "Empty",
			args:    nil,
			wantMsg: "invalid transaction: no transactions given",
		},
		{
			name: "MissingPayer",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Points: "1", Timestamp: "2020-11-02T14:00:00Z"},
				{Payer: "  ", Points: "1", Timestamp: "2020-11-02T14:00:00Z"},
			},
			wantMsg: "invalid transaction: entry 1: payer is required",
		},
		{
			name: "NonNumericPoints",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Points: "lots", Timestamp: "2020-11-02T14:00:00Z"},
			},
			wantMsg: "invalid transaction: entry 0: points must be a number",
		},
		{
			name: "MissingPoints",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Timestamp: "2020-11-02T14:00:00Z"},
			},
			wantMsg: "invalid transaction: entry 0: points must be a number",
		},
		{
			name: "HugeExponent",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Points: "1e50000000", Timestamp: "2020-11-02T14:00:00Z"},
			},
			wantMsg: "invalid transaction: entry 0: points out of range",
		},
		{
			name: "TinyExponent",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Points: "1", Timestamp: "2020-11-02T14:00:00Z"},
				{Payer: "DANNON", Points: "1e-10000000", Timestamp: "2020-11-02T14:00:00Z"},
			},
			wantMsg: "invalid transaction: entry 1: points out of range",
		},
		{
			name: "TooManyDigits",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Points: "1234567890123456789012345678901234567890", Timestamp: "2020-11-02T14:00:00Z"},
			},
			wantMsg: "invalid transaction: entry 0: points out of range",
		},
		{
			name: "BadTimestamp",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Points: "1", Timestamp: "2020-11-02T14:00:00Z"},
				{Payer: "DANNON", Points: "1", Timestamp: "2020-11-02T14:00:00Z"},
				{Payer: "DANNON", Points: "1", Timestamp: "02/11/2020"},
			},
			wantMsg: "invalid transaction: entry 2: timestamp must be RFC3339",
		},
		{
			name: "MissingTimestamp",
			args: []domain.CreateTransactionParams{
				{Payer: "DANNON", Points: "1"},
			},
			wantMsg: "invalid transaction: entry 0: timestamp must be RFC3339",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			l := NewMockLedger(ctrl)
			publisher := NewMockPublisher(ctrl)

			l.EXPECT().Append(gomock.Any()).Times(0)
			publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			got, err := New(l, publisher).Add(context.Background(), tc.args)
			require.ErrorIs(t, err, domain.ErrInvalidTransaction)
			require.EqualError(t, err, tc.wantMsg)
			require.Nil(t, got)
		})
	}
}

func TestAddLedgerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := NewMockLedger(ctrl)
	publisher := NewMockPublisher(ctrl)

	ledgerErr := errors.New("ledger unavailable")
	l.EXPECT().Append(gomock.Any()).Times(1).Return(ledgerErr)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	got, err := New(l, publisher).Add(context.Background(), exampleParams()[:1])
	require.ErrorIs(t, err, ledgerErr)
	require.Nil(t, got)
}

func TestAddPublishErrorIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(errors.New("broker down"))

	l := ledger.New()

	got, err := New(l, publisher).Add(context.Background(), exampleParams())
	require.NoError(t, err)
	require.Len(t, got, 5)
	require.Equal(t, 5, l.Len())
}

func TestBalancesFromLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := NewMockLedger(ctrl)

	want := domain.Projection{"DANNON": decimal.NewFromInt(7)}
	l.EXPECT().Projection().Times(1).Return(want)

	got := New(l, NewMockPublisher(ctrl)).Balances(context.Background())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("service.Balances() returned unexpected difference (-want +got):\n%s", diff)
	}
}

func TestFindByTimestamp(t *testing.T) {
	testCases := []struct {
		name       string
		timestamp  string
		buildStubs func(l *MockLedger)
		want       int
		wantErr    error
	}{
		{
			name:      "Found",
			timestamp: "2020-10-31T15:00Z",
			buildStubs: func(l *MockLedger) {
				l.EXPECT().
					FindInsertionPoint(gomock.Eq(time.Date(2020, 10, 31, 15, 0, 0, 0, time.UTC))).
					Times(1).
					Return(2)
			},
			want: 2,
		},
		{
			name:      "NotFound",
			timestamp: "2020-10-31T16:00:00Z",
			buildStubs: func(l *MockLedger) {
				l.EXPECT().FindInsertionPoint(gomock.Any()).Times(1).Return(-1)
			},
			want: -1,
		},
		{
			name:      "InvalidTimestamp",
			timestamp: "tomorrow",
			buildStubs: func(l *MockLedger) {
				l.EXPECT().FindInsertionPoint(gomock.Any()).Times(0)
			},
			want:    -1,
			wantErr: domain.ErrInvalidTransaction,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			l := NewMockLedger(ctrl)
			tc.buildStubs(l)

			got, err := New(l, NewMockPublisher(ctrl)).FindByTimestamp(context.Background(), tc.timestamp)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			require.Equal(t, tc.want, got)
		})
	}
}
