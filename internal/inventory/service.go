package inventory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dokon-erp/dokon/internal/shared"
)

// Recorder receives stock movement events, typically for metrics.
type Recorder interface {
	StockAdded(quantity int)
	SaleRecorded(quantity int, amount float64)
	SaleRejected()
}

type nopRecorder struct{}

func (nopRecorder) StockAdded(int)            {}
func (nopRecorder) SaleRecorded(int, float64) {}
func (nopRecorder) SaleRejected()             {}

// Service coordinates inventory operations.
type Service struct {
	repo     RepositoryPort
	logger   *slog.Logger
	recorder Recorder
}

// NewService builds Service. recorder may be nil.
func NewService(repo RepositoryPort, logger *slog.Logger, recorder Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{repo: repo, logger: logger, recorder: recorder}
}

// List returns products, paginated when filter.Page is set.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, total, nil
}

// Get loads one product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a product.
func (s *Service) Create(ctx context.Context, input CreateInput) (Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	verr := &shared.ValidationError{}
	validateName(verr, input.Name)
	nonNegativeFloat(verr, "purchase_price", input.PurchasePrice)
	nonNegativeFloat(verr, "sale_price", input.SalePrice)
	nonNegativeInt(verr, "stock_quantity", input.StockQuantity)
	nonNegativeInt(verr, "min_quantity", input.MinQuantity)
	shared.CheckQuantity(verr, "stock_quantity", input.StockQuantity)
	shared.CheckQuantity(verr, "min_quantity", input.MinQuantity)
	if !input.Category.Valid() {
		verr.Add("category", "The selected category is invalid.")
	}
	if err := verr.OrNil(); err != nil {
		return Product{}, err
	}
	p, err := s.repo.Create(ctx, input)
	if err != nil {
		return Product{}, err
	}
	s.logger.Info("product created", slog.Int64("product_id", p.ID), slog.String("name", p.Name))
	return p, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Product, error) {
	verr := &shared.ValidationError{}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
		validateName(verr, trimmed)
	}
	if input.PurchasePrice != nil {
		nonNegativeFloat(verr, "purchase_price", *input.PurchasePrice)
	}
	if input.SalePrice != nil {
		nonNegativeFloat(verr, "sale_price", *input.SalePrice)
	}
	if input.StockQuantity != nil {
		nonNegativeInt(verr, "stock_quantity", *input.StockQuantity)
		shared.CheckQuantity(verr, "stock_quantity", *input.StockQuantity)
	}
	if input.MinQuantity != nil {
		nonNegativeInt(verr, "min_quantity", *input.MinQuantity)
		shared.CheckQuantity(verr, "min_quantity", *input.MinQuantity)
	}
	if input.Category != nil && !input.Category.Valid() {
		verr.Add("category", "The selected category is invalid.")
	}
	if err := verr.OrNil(); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes a product. Its stock entries and sales are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", slog.Int64("product_id", id))
	return nil
}

// AddStock records a receipt, increments stock and sets the purchase price
// to the receipt's unit price, atomically.
func (s *Service) AddStock(ctx context.Context, input MovementInput) (StockResult, error) {
	if err := validateMovement(input); err != nil {
		return StockResult{}, err
	}
	var result StockResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if int64(current.StockQuantity)+int64(input.Quantity) > shared.MaxQuantity {
			return shared.NewValidationError("quantity", "The stock quantity would exceed 2147483647.")
		}
		entry, err := tx.InsertStockEntry(ctx, input)
		if err != nil {
			return err
		}
		product, err := tx.ApplyStockIn(ctx, input.ProductID, input.Quantity, input.UnitPrice)
		if err != nil {
			return err
		}
		result = StockResult{StockEntry: entry, Product: product}
		return nil
	})
	if err != nil {
		return StockResult{}, err
	}
	s.recorder.StockAdded(input.Quantity)
	s.logger.Info("stock added",
		slog.Int64("product_id", input.ProductID),
		slog.Int("quantity", input.Quantity),
		slog.Int("stock_quantity", result.Product.StockQuantity))
	return result, nil
}

// RecordSale records a sale, decrements stock and sets the sale price,
// atomically. A sale larger than the stock on hand is rejected before any
// write.
func (s *Service) RecordSale(ctx context.Context, input MovementInput) (SaleResult, error) {
	if err := validateMovement(input); err != nil {
		return SaleResult{}, err
	}
	var result SaleResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := tx.GetProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product.StockQuantity < input.Quantity {
			return &InsufficientStockError{ProductID: product.ID, Requested: input.Quantity, Available: product.StockQuantity}
		}
		sale, err := tx.InsertSale(ctx, input)
		if err != nil {
			return err
		}
		updated, err := tx.ApplySale(ctx, input.ProductID, input.Quantity, input.UnitPrice)
		if err != nil {
			var short *InsufficientStockError
			if errors.As(err, &short) {
				short.Available = product.StockQuantity
			}
			return err
		}
		result = SaleResult{Sale: sale, Product: updated}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			s.recorder.SaleRejected()
			s.logger.Warn("sale rejected", slog.Int64("product_id", input.ProductID), slog.Any("error", err))
		}
		return SaleResult{}, err
	}
	s.recorder.SaleRecorded(input.Quantity, float64(input.Quantity)*input.UnitPrice)
	s.logger.Info("sale recorded",
		slog.Int64("product_id", input.ProductID),
		slog.Int("quantity", input.Quantity),
		slog.Int("stock_quantity", result.Product.StockQuantity))
	return result, nil
}

// LessProducts lists products at or below their reorder threshold.
func (s *Service) LessProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Count returns the number of products.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// CountLowStock returns the number of low-stock products.
func (s *Service) CountLowStock(ctx context.Context) (int, error) {
	return s.repo.CountLowStock(ctx)
}

// StockEntries returns a product's receipts, newest first.
func (s *Service) StockEntries(ctx context.Context, productID int64) ([]StockEntry, error) {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return nil, err
	}
	entries, err := s.repo.StockEntries(ctx, productID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []StockEntry{}
	}
	return entries, nil
}

// Sales returns a product's sales, newest first.
func (s *Service) Sales(ctx context.Context, productID int64) ([]Sale, error) {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return nil, err
	}
	sales, err := s.repo.Sales(ctx, productID)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []Sale{}
	}
	return sales, nil
}

func validateMovement(input MovementInput) error {
	verr := &shared.ValidationError{}
	if input.ProductID <= 0 {
		verr.Add("product_id", "The product id field is required.")
	}
	if input.Quantity < 1 {
		verr.Add("quantity", "The quantity field must be at least 1.")
	}
	shared.CheckQuantity(verr, "quantity", input.Quantity)
	nonNegativeFloat(verr, "unit_price", input.UnitPrice)
	return verr.OrNil()
}

func validateName(verr *shared.ValidationError, name string) {
	switch {
	case name == "":
		verr.Add("name", "The name field is required.")
	case utf8.RuneCountInString(name) > 255:
		verr.Add("name", "The name field must not be greater than 255 characters.")
	}
}

func nonNegativeFloat(verr *shared.ValidationError, field string, v float64) {
	if v < 0 {
		verr.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" field must be at least 0.")
	}
}

func nonNegativeInt(verr *shared.ValidationError, field string, v int) {
	if v < 0 {
		verr.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" field must be at least 0.")
	}
}
