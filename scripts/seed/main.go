package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/app"
	"github.com/dokon-erp/dokon/internal/clients"
	"github.com/dokon-erp/dokon/internal/expenses"
	"github.com/dokon-erp/dokon/internal/inventory"
	"github.com/dokon-erp/dokon/internal/ledger"
	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/profits"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Seeds a fresh database with demo clients, ledger rows, products, expenses
// and a monthly profit row. Users are created with `dokon seed-users`.
func main() {
	_ = godotenv.Load()
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := seeder{
		clients:   clients.NewService(clients.NewRepository(pool), logger),
		debts:     ledger.NewService(ledger.Debt, ledger.NewRepository(pool, ledger.Debt), logger),
		payments:  ledger.NewService(ledger.Payment, ledger.NewRepository(pool, ledger.Payment), logger),
		inventory: inventory.NewService(inventory.NewRepository(pool), logger, nil),
		expenses:  expenses.NewService(expenses.NewRepository(pool), logger),
		profits:   profits.NewService(profits.NewRepository(pool), logger),
		now:       time.Now(),
	}

	count, err := s.clients.Count(ctx)
	if err != nil {
		log.Fatalf("count clients: %v", err)
	}
	if count > 0 {
		fmt.Println("database already has clients, nothing to seed")
		return
	}

	fmt.Println("→ Seeding clients and ledger...")
	if err := s.seedLedger(ctx); err != nil {
		log.Fatalf("seed ledger: %v", err)
	}
	fmt.Println("→ Seeding products...")
	if err := s.seedProducts(ctx); err != nil {
		log.Fatalf("seed products: %v", err)
	}
	fmt.Println("→ Seeding expenses...")
	if err := s.seedExpenses(ctx); err != nil {
		log.Fatalf("seed expenses: %v", err)
	}
	fmt.Println("→ Seeding monthly profit...")
	if err := s.seedProfit(ctx); err != nil {
		log.Fatalf("seed profit: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

type seeder struct {
	clients   *clients.Service
	debts     *ledger.Service
	payments  *ledger.Service
	inventory *inventory.Service
	expenses  *expenses.Service
	profits   *profits.Service
	now       time.Time
}

func (s seeder) seedLedger(ctx context.Context) error {
	rows := []struct {
		name, phone, telegram string
		debts, payments       []int64
	}{
		{"Aziz Karimov", "+998901112233", "aziz_k", []int64{250000, 120000}, []int64{100000}},
		{"Dilnoza Rahimova", "+998935554433", "dilnoza", []int64{80000}, []int64{80000}},
		{"Bekzod Tursunov", "+998977778899", "", []int64{540000}, nil},
	}
	for _, row := range rows {
		input := clients.CreateInput{Name: row.name, Telephone: row.phone}
		if row.telegram != "" {
			input.Telegram = &row.telegram
		}
		client, err := s.clients.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("client %s: %w", row.name, err)
		}
		for _, amount := range row.debts {
			if _, err := s.debts.Create(ctx, ledger.CreateInput{
				ClientID:    client.ID,
				Amount:      decimal.NewFromInt(amount),
				Description: ptr("nasiya"),
			}); err != nil {
				return fmt.Errorf("debt for %s: %w", row.name, err)
			}
		}
		for _, amount := range row.payments {
			if _, err := s.payments.Create(ctx, ledger.CreateInput{
				ClientID: client.ID,
				Amount:   decimal.NewFromInt(amount),
			}); err != nil {
				return fmt.Errorf("payment for %s: %w", row.name, err)
			}
		}
	}
	return nil
}

func (s seeder) seedProducts(ctx context.Context) error {
	rows := []struct {
		input     inventory.CreateInput
		restock   int
		soldUnits int
	}{
		{inventory.CreateInput{Name: "Coca-Cola 1L", Category: inventory.CategoryDrinks, PurchasePrice: 9000, SalePrice: 12000, StockQuantity: 24, MinQuantity: 6}, 12, 20},
		{inventory.CreateInput{Name: "Non", Category: inventory.CategoryEdibles, PurchasePrice: 3000, SalePrice: 4000, StockQuantity: 40, MinQuantity: 10}, 0, 35},
		{inventory.CreateInput{Name: "Gugurt", Category: inventory.CategoryOthers, PurchasePrice: 500, SalePrice: 1000, StockQuantity: 3, MinQuantity: 5}, 0, 0},
	}
	for _, row := range rows {
		product, err := s.inventory.Create(ctx, row.input)
		if err != nil {
			return fmt.Errorf("product %s: %w", row.input.Name, err)
		}
		if row.restock > 0 {
			if _, err := s.inventory.AddStock(ctx, inventory.MovementInput{
				ProductID: product.ID,
				Quantity:  row.restock,
				UnitPrice: row.input.PurchasePrice,
			}); err != nil {
				return fmt.Errorf("restock %s: %w", row.input.Name, err)
			}
		}
		if row.soldUnits > 0 {
			if _, err := s.inventory.RecordSale(ctx, inventory.MovementInput{
				ProductID: product.ID,
				Quantity:  row.soldUnits,
				UnitPrice: row.input.SalePrice,
			}); err != nil {
				return fmt.Errorf("sale of %s: %w", row.input.Name, err)
			}
		}
	}
	return nil
}

func (s seeder) seedExpenses(ctx context.Context) error {
	rows := []struct {
		category expenses.Category
		amount   int64
		note     string
	}{
		{expenses.CategoryRent, 3000000, "do'kon ijarasi"},
		{expenses.CategoryElectricity, 420000, ""},
		{expenses.CategoryInternet, 150000, ""},
		{expenses.CategorySalary, 2500000, "sotuvchi"},
	}
	for i, row := range rows {
		input := expenses.CreateInput{
			Category: row.category,
			Amount:   decimal.NewFromInt(row.amount),
			Date:     s.now.AddDate(0, 0, -i),
		}
		if row.note != "" {
			input.Description = ptr(row.note)
		}
		if _, err := s.expenses.Create(ctx, input); err != nil {
			return fmt.Errorf("expense %s: %w", row.category.Label(), err)
		}
	}
	return nil
}

func (s seeder) seedProfit(ctx context.Context) error {
	current := shared.MonthOf(s.now)
	month := &current
	expenseTotal, err := s.expenses.Sum(ctx, month)
	if err != nil {
		return err
	}
	debtTotal, err := s.debts.Sum(ctx, month)
	if err != nil {
		return err
	}
	paymentTotal, err := s.payments.Sum(ctx, month)
	if err != nil {
		return err
	}
	_, err = s.profits.Create(ctx, profits.CreateInput{
		Month:           int(s.now.Month()),
		TotalRevenue:    decimal.NewFromInt(12_500_000),
		TotalExpenses:   expenseTotal,
		TotalDebtsAdded: debtTotal,
		DebtPayments:    paymentTotal,
		ProductProfit:   decimal.NewNullDecimal(decimal.NewFromInt(1_800_000)),
	})
	return err
}

func ptr[T any](v T) *T {
	return &v
}
