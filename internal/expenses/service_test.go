package expenses

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokon-erp/dokon/internal/shared"
)

type memoryRepo struct {
	items  []Expense
	nextID int64
	now    time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{now: time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)}
}

func inMonth(month *shared.MonthRange, d time.Time) bool {
	return month.Contains(d)
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Expense, int, error) {
	var out []Expense
	for _, e := range r.items {
		if inMonth(filter.Month, e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Expense, error) {
	for _, e := range r.items {
		if e.ID == id {
			return e, nil
		}
	}
	return Expense{}, fmt.Errorf("expense %d: %w", id, shared.ErrNotFound)
}

func (r *memoryRepo) Create(ctx context.Context, input CreateInput) (Expense, error) {
	r.nextID++
	r.now = r.now.Add(time.Minute)
	e := Expense{ID: r.nextID, Category: input.Category, Amount: input.Amount, Description: input.Description, Date: input.Date, CreatedAt: r.now, UpdatedAt: r.now}
	r.items = append(r.items, e)
	return e, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, input UpdateInput) (Expense, error) {
	for i := range r.items {
		e := &r.items[i]
		if e.ID != id {
			continue
		}
		if input.Category != nil {
			e.Category = *input.Category
		}
		if input.Amount != nil {
			e.Amount = *input.Amount
		}
		if input.Description != nil {
			e.Description = input.Description
		}
		if input.Date != nil {
			e.Date = *input.Date
		}
		return *e, nil
	}
	return Expense{}, fmt.Errorf("expense %d: %w", id, shared.ErrNotFound)
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	for i, e := range r.items {
		if e.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %d: %w", id, shared.ErrNotFound)
}

func (r *memoryRepo) Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]Expense, error) {
	var out []Expense
	for _, e := range r.items {
		if inMonth(month, e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.items {
		if month.Contains(e.CreatedAt) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestListRoundTripByBusinessDate(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Category: CategoryRent, Amount: decimal.NewFromInt(1500000), Date: day(2025, 6, 30)})
	require.NoError(t, err)

	june, err := shared.ParseMonth("2025-06")
	require.NoError(t, err)
	page, err := svc.List(ctx, ListFilter{Month: june, Page: shared.NewPageRequest(1, 0, DefaultPerPage)})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 100, page.PerPage)

	july, err := shared.ParseMonth("2025-07")
	require.NoError(t, err)
	page, err = svc.List(ctx, ListFilter{Month: july, Page: shared.NewPageRequest(1, 0, DefaultPerPage)})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateInput{Category: 9, Amount: decimal.NewFromInt(-1)})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")
	assert.Contains(t, verr.Fields, "amount")
	assert.Contains(t, verr.Fields, "date")
}

func TestRecentLimitsAndOrders(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		_, err := svc.Create(ctx, CreateInput{Category: CategoryTax, Amount: decimal.NewFromInt(int64(i)), Date: day(2025, 7, i)})
		require.NoError(t, err)
	}
	recent, err := svc.Recent(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, recent, RecentLimit)
	assert.Equal(t, int64(7), recent[0].ID)

	sum, err := svc.Sum(ctx, nil)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(28)))
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()
	e, err := svc.Create(ctx, CreateInput{Category: CategoryInternet, Amount: decimal.NewFromInt(100), Date: day(2025, 7, 1)})
	require.NoError(t, err)

	salary := CategorySalary
	updated, err := svc.Update(ctx, e.ID, UpdateInput{Category: &salary})
	require.NoError(t, err)
	assert.Equal(t, CategorySalary, updated.Category)

	bad := Category(0)
	_, err = svc.Update(ctx, e.ID, UpdateInput{Category: &bad})
	assert.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, svc.Delete(ctx, e.ID))
	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestParseCategoryIsStrict(t *testing.T) {
	for raw, want := range map[string]Category{"1": CategoryRent, "Ish haqi": CategorySalary, "ELEKTR": CategoryElectricity, "personal": CategoryPersonal} {
		got, err := ParseCategory(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	for _, raw := range []string{"0", "7", "300", "food", ""} {
		_, err := ParseCategory(raw)
		assert.ErrorIs(t, err, shared.ErrValidation, raw)
	}
}

func TestExpenseJSON(t *testing.T) {
	e := Expense{ID: 1, Category: CategoryRent, Amount: decimal.NewFromInt(10), Date: day(2025, 7, 3)}
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "2025-07-03", out["date"])
	assert.Equal(t, "Arenda", out["category_label"])
}

func TestAmountMustFitColumn(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()
	date := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, CreateInput{Category: CategoryRent, Amount: decimal.RequireFromString("1e14"), Date: date})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")

	e, err := svc.Create(ctx, CreateInput{Category: CategoryRent, Amount: decimal.RequireFromString("12.34"), Date: date})
	require.NoError(t, err)

	tooFine := decimal.RequireFromString("0.125")
	_, err = svc.Update(ctx, e.ID, UpdateInput{Amount: &tooFine})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")
}
