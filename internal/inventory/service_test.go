package inventory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokon-erp/dokon/internal/shared"
)

type memoryState struct {
	products map[int64]Product
	entries  []StockEntry
	sales    []Sale
	nextID   int64
}

func (s memoryState) clone() memoryState {
	out := memoryState{products: make(map[int64]Product, len(s.products)), nextID: s.nextID}
	for id, p := range s.products {
		out.products[id] = p
	}
	out.entries = append(out.entries, s.entries...)
	out.sales = append(out.sales, s.sales...)
	return out
}

type memoryRepo struct {
	state      memoryState
	failApply  error
	lockedRows []int64
}

type memoryTx struct {
	repo  *memoryRepo
	state *memoryState
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{state: memoryState{products: make(map[int64]Product)}}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	staged := r.state.clone()
	if err := fn(ctx, &memoryTx{repo: r, state: &staged}); err != nil {
		return err
	}
	r.state = staged
	return nil
}

func (r *memoryRepo) sortedProducts() []Product {
	out := make([]Product, 0, len(r.state.products))
	for _, p := range r.state.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	var out []Product
	for _, p := range r.sortedProducts() {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		out = append(out, p)
	}
	total := len(out)
	if filter.Page != nil {
		start := filter.Page.Offset()
		if start > len(out) {
			start = len(out)
		}
		end := start + filter.Page.PerPage
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.state.products[id]
	if !ok {
		return Product{}, productNotFound(id)
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, input CreateInput) (Product, error) {
	r.state.nextID++
	now := time.Now().UTC()
	p := Product{
		ID:            r.state.nextID,
		Name:          input.Name,
		Category:      input.Category,
		PurchasePrice: input.PurchasePrice,
		SalePrice:     input.SalePrice,
		StockQuantity: input.StockQuantity,
		MinQuantity:   input.MinQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.state.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, input UpdateInput) (Product, error) {
	p, ok := r.state.products[id]
	if !ok {
		return Product{}, productNotFound(id)
	}
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.PurchasePrice != nil {
		p.PurchasePrice = *input.PurchasePrice
	}
	if input.SalePrice != nil {
		p.SalePrice = *input.SalePrice
	}
	if input.StockQuantity != nil {
		p.StockQuantity = *input.StockQuantity
	}
	if input.MinQuantity != nil {
		p.MinQuantity = *input.MinQuantity
	}
	r.state.products[id] = p
	return p, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.state.products[id]; !ok {
		return productNotFound(id)
	}
	delete(r.state.products, id)
	return nil
}

func (r *memoryRepo) LowStock(ctx context.Context) ([]Product, error) {
	var out []Product
	for _, p := range r.sortedProducts() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) Count(ctx context.Context) (int, error) {
	return len(r.state.products), nil
}

func (r *memoryRepo) CountLowStock(ctx context.Context) (int, error) {
	low, _ := r.LowStock(ctx)
	return len(low), nil
}

func (r *memoryRepo) StockEntries(ctx context.Context, productID int64) ([]StockEntry, error) {
	var out []StockEntry
	for i := len(r.state.entries) - 1; i >= 0; i-- {
		if r.state.entries[i].ProductID == productID {
			out = append(out, r.state.entries[i])
		}
	}
	return out, nil
}

func (r *memoryRepo) Sales(ctx context.Context, productID int64) ([]Sale, error) {
	var out []Sale
	for i := len(r.state.sales) - 1; i >= 0; i-- {
		if r.state.sales[i].ProductID == productID {
			out = append(out, r.state.sales[i])
		}
	}
	return out, nil
}

func (tx *memoryTx) GetProductForUpdate(ctx context.Context, id int64) (Product, error) {
	tx.repo.lockedRows = append(tx.repo.lockedRows, id)
	p, ok := tx.state.products[id]
	if !ok {
		return Product{}, productNotFound(id)
	}
	return p, nil
}

func (tx *memoryTx) InsertStockEntry(ctx context.Context, input MovementInput) (StockEntry, error) {
	tx.state.nextID++
	e := StockEntry{ID: tx.state.nextID, ProductID: input.ProductID, Quantity: input.Quantity, UnitPrice: input.UnitPrice, Description: input.Description}
	tx.state.entries = append(tx.state.entries, e)
	return e, nil
}

func (tx *memoryTx) InsertSale(ctx context.Context, input MovementInput) (Sale, error) {
	tx.state.nextID++
	s := Sale{ID: tx.state.nextID, ProductID: input.ProductID, Quantity: input.Quantity, UnitPrice: input.UnitPrice, Description: input.Description}
	tx.state.sales = append(tx.state.sales, s)
	return s, nil
}

func (tx *memoryTx) ApplyStockIn(ctx context.Context, productID int64, qty int, unitPrice float64) (Product, error) {
	if tx.repo.failApply != nil {
		return Product{}, tx.repo.failApply
	}
	p := tx.state.products[productID]
	p.StockQuantity += qty
	p.PurchasePrice = unitPrice
	tx.state.products[productID] = p
	return p, nil
}

func (tx *memoryTx) ApplySale(ctx context.Context, productID int64, qty int, unitPrice float64) (Product, error) {
	if tx.repo.failApply != nil {
		return Product{}, tx.repo.failApply
	}
	p := tx.state.products[productID]
	if p.StockQuantity < qty {
		return Product{}, &InsufficientStockError{ProductID: productID, Requested: qty}
	}
	p.StockQuantity -= qty
	p.SalePrice = unitPrice
	tx.state.products[productID] = p
	return p, nil
}

type countingRecorder struct {
	added    int
	sold     int
	revenue  float64
	rejected int
}

func (c *countingRecorder) StockAdded(q int) { c.added += q }
func (c *countingRecorder) SaleRecorded(q int, amount float64) {
	c.sold += q
	c.revenue += amount
}
func (c *countingRecorder) SaleRejected() { c.rejected++ }

func newTestService(repo *memoryRepo, rec Recorder) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), rec)
}

func createCola(t *testing.T, svc *Service) Product {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateInput{Name: "Cola", Category: CategoryDrinks, StockQuantity: 10, MinQuantity: 5})
	require.NoError(t, err)
	return p
}

func TestRecordSaleScenario(t *testing.T) {
	repo := newMemoryRepo()
	rec := &countingRecorder{}
	svc := newTestService(repo, rec)
	ctx := context.Background()
	cola := createCola(t, svc)

	res, err := svc.RecordSale(ctx, MovementInput{ProductID: cola.ID, Quantity: 3, UnitPrice: 5000})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Product.StockQuantity)
	assert.InDelta(t, 5000, res.Product.SalePrice, 0.0001)
	assert.Equal(t, 3, res.Sale.Quantity)

	low, err := svc.LessProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	res, err = svc.RecordSale(ctx, MovementInput{ProductID: cola.ID, Quantity: 5, UnitPrice: 5000})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Product.StockQuantity)

	low, err = svc.LessProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, cola.ID, low[0].ID)

	sales, err := svc.Sales(ctx, cola.ID)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, 5, sales[0].Quantity)
	assert.Equal(t, 8, rec.sold)
	assert.InDelta(t, 40000, rec.revenue, 0.0001)
	assert.Contains(t, repo.lockedRows, cola.ID)
}

func TestRecordSaleRejectsInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	rec := &countingRecorder{}
	svc := newTestService(repo, rec)
	ctx := context.Background()
	p, err := svc.Create(ctx, CreateInput{Name: "Non", StockQuantity: 2})
	require.NoError(t, err)

	_, err = svc.RecordSale(ctx, MovementInput{ProductID: p.ID, Quantity: 100, UnitPrice: 1})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 100, short.Requested)
	assert.Equal(t, 2, short.Available)

	after, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.StockQuantity)
	sales, err := svc.Sales(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Equal(t, 1, rec.rejected)
}

func TestAddStockSetsLastPurchasePrice(t *testing.T) {
	repo := newMemoryRepo()
	rec := &countingRecorder{}
	svc := newTestService(repo, rec)
	ctx := context.Background()
	cola := createCola(t, svc)

	_, err := svc.AddStock(ctx, MovementInput{ProductID: cola.ID, Quantity: 4, UnitPrice: 3000})
	require.NoError(t, err)
	res, err := svc.AddStock(ctx, MovementInput{ProductID: cola.ID, Quantity: 6, UnitPrice: 3500})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Product.StockQuantity)
	assert.InDelta(t, 3500, res.Product.PurchasePrice, 0.0001)
	assert.Equal(t, 6, res.StockEntry.Quantity)

	entries, err := svc.StockEntries(ctx, cola.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.InDelta(t, 3500, entries[0].UnitPrice, 0.0001)
	assert.Equal(t, 10, rec.added)
}

func TestAddStockIsAtomic(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	cola := createCola(t, svc)

	repo.failApply = errors.New("connection reset")
	_, err := svc.AddStock(ctx, MovementInput{ProductID: cola.ID, Quantity: 4, UnitPrice: 3000})
	require.Error(t, err)

	entries, err := svc.StockEntries(ctx, cola.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	after, err := svc.Get(ctx, cola.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.StockQuantity)
}

func TestMovementValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, MovementInput{ProductID: 1, Quantity: 0, UnitPrice: -1})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity")
	assert.Contains(t, verr.Fields, "unit_price")

	_, err = svc.RecordSale(ctx, MovementInput{ProductID: 99, Quantity: 1, UnitPrice: 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.StockEntries(ctx, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateUpdateDeleteProduct(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: " ", PurchasePrice: -2, Category: Category(7)})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "purchase_price")
	assert.Contains(t, verr.Fields, "category")

	p, err := svc.Create(ctx, CreateInput{Name: "Non", Category: CategoryEdibles, SalePrice: 4000})
	require.NoError(t, err)

	minQty := 3
	updated, err := svc.Update(ctx, p.ID, UpdateInput{MinQuantity: &minQty})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MinQuantity)
	assert.Equal(t, "Non", updated.Name)

	neg := -1
	_, err = svc.Update(ctx, p.ID, UpdateInput{StockQuantity: &neg})
	assert.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), shared.ErrNotFound)
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"1":                    CategoryDrinks,
		"drinks":               CategoryDrinks,
		"ICHIMLIKLAR":          CategoryDrinks,
		" Edibles ":            CategoryEdibles,
		"Yeyiladigan narsalar": CategoryEdibles,
		"0":                    CategoryOthers,
		"household":            CategoryOthers,
	}
	for raw, want := range cases {
		got, err := ParseCategory(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseCategory("5")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestQuantitiesMustFitInteger(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	cola := createCola(t, svc)

	_, err := svc.AddStock(ctx, MovementInput{ProductID: cola.ID, Quantity: shared.MaxQuantity + 1, UnitPrice: 1})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity")

	_, err = svc.RecordSale(ctx, MovementInput{ProductID: cola.ID, Quantity: shared.MaxQuantity + 1, UnitPrice: 1})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity")

	_, err = svc.AddStock(ctx, MovementInput{ProductID: cola.ID, Quantity: shared.MaxQuantity, UnitPrice: 1})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity")
	entries, err := svc.StockEntries(ctx, cola.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	after, err := svc.Get(ctx, cola.ID)
	require.NoError(t, err)
	assert.Equal(t, cola.StockQuantity, after.StockQuantity)

	_, err = svc.Create(ctx, CreateInput{Name: "Non", StockQuantity: shared.MaxQuantity + 1, MinQuantity: shared.MaxQuantity + 1})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "stock_quantity")
	assert.Contains(t, verr.Fields, "min_quantity")
}
