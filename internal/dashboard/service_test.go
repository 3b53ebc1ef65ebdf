package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokon-erp/dokon/internal/expenses"
	"github.com/dokon-erp/dokon/internal/inventory"
	"github.com/dokon-erp/dokon/internal/ledger"
	"github.com/dokon-erp/dokon/internal/shared"
)

type stubCounter struct {
	n   int
	err error
}

func (s stubCounter) Count(context.Context) (int, error) { return s.n, s.err }

type stubLedger struct {
	sums   map[string]decimal.Decimal
	recent []ledger.Entry
	limit  int
}

func (s *stubLedger) Sum(_ context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	return s.sums[month.Key()], nil
}

func (s *stubLedger) Recent(_ context.Context, _ *shared.MonthRange, limit int) ([]ledger.Entry, error) {
	s.limit = limit
	return s.recent, nil
}

type stubProducts struct {
	count, low int
	less       []inventory.Product
}

func (s stubProducts) Count(context.Context) (int, error)         { return s.count, nil }
func (s stubProducts) CountLowStock(context.Context) (int, error) { return s.low, nil }
func (s stubProducts) LessProducts(context.Context) ([]inventory.Product, error) {
	return s.less, nil
}

type stubExpenses struct {
	sums   map[string]decimal.Decimal
	recent []expenses.Expense
}

func (s stubExpenses) Sum(_ context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	return s.sums[month.Key()], nil
}

func (s stubExpenses) Recent(context.Context, *shared.MonthRange, int) ([]expenses.Expense, error) {
	return s.recent, nil
}

type stubRevenue map[string]decimal.Decimal

func (s stubRevenue) SumRevenue(_ context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	return s[month.Key()], nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testSources() Sources {
	return Sources{
		Clients:  stubCounter{n: 3},
		Debts:    &stubLedger{sums: map[string]decimal.Decimal{"all": dec(80000), "2025-07": dec(50000)}},
		Payments: &stubLedger{sums: map[string]decimal.Decimal{"all": dec(30000), "2025-07": dec(20000)}},
		Products: stubProducts{count: 4, low: 1, less: []inventory.Product{{ID: 1, Name: "Cola", StockQuantity: 2, MinQuantity: 5}}},
		Expenses: stubExpenses{sums: map[string]decimal.Decimal{"all": dec(15000), "2025-07": dec(10000)}},
		Profits:  stubRevenue{"all": dec(200000), "2025-07": dec(100000)},
	}
}

func newTestService(src Sources) *Service {
	return NewService(src, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStatisticFormulas(t *testing.T) {
	svc := newTestService(testSources())
	july, err := shared.ParseMonth("2025-07")
	require.NoError(t, err)

	stat, err := svc.Statistic(context.Background(), july)
	require.NoError(t, err)

	assert.Equal(t, 3, stat.CountClient)
	assert.Equal(t, 4, stat.CountProducts)
	assert.Equal(t, 1, stat.LessProduct)
	assert.True(t, stat.TotalDebt.Equal(dec(30000)), stat.TotalDebt.String())
	// 100000 - 10000 + 30000
	assert.True(t, stat.TotalRevenue.Equal(dec(120000)), stat.TotalRevenue.String())
	assert.True(t, stat.TotalExpense.Equal(dec(10000)))
	// 100000 - 10000 - 30000
	assert.True(t, stat.AllBenefit.Equal(dec(60000)), stat.AllBenefit.String())
}

func TestStatisticWithoutMonth(t *testing.T) {
	svc := newTestService(testSources())

	stat, err := svc.Statistic(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, stat.TotalDebt.Equal(dec(50000)))
	assert.True(t, stat.TotalRevenue.Equal(dec(235000)))
	assert.True(t, stat.AllBenefit.Equal(dec(135000)))
}

func TestStatisticPropagatesErrors(t *testing.T) {
	src := testSources()
	boom := errors.New("boom")
	src.Clients = stubCounter{err: boom}

	_, err := newTestService(src).Statistic(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestRecentPaymentsDefaultsLimit(t *testing.T) {
	src := testSources()
	payments := src.Payments.(*stubLedger)
	svc := newTestService(src)

	items, err := svc.RecentPayments(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, ledger.RecentLimit, payments.limit)

	_, err = svc.RecentPayments(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, payments.limit)
}
