package order

import (
	"context"
	"io"
	"log"
	"os"
	"testing"

	"buildkit-store/internal/domain"
	"buildkit-store/internal/migrate"
	categoryrepo "buildkit-store/internal/repository/category"
	productrepo "buildkit-store/internal/repository/product"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, sessions, tokens, customers, products, categories RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func seedProducts(ctx context.Context, t *testing.T, pool *pgxpool.Pool) (string, string) {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)

	category, err := categoryrepo.NewPostgres(pool).Upsert(ctx, domain.Category{
		Name: "Building Materials",
		Slug: "building-materials",
	})
	if err != nil {
		t.Fatalf("upsert category: %v", err)
	}

	products := productrepo.NewPostgres(pool, quiet)
	cement, err := products.Upsert(ctx, domain.Product{
		CategoryID: category.ID,
		Name:       "Portland Cement 50kg",
		Slug:       "portland-cement-50kg",
		PriceCents: 11500,
		Currency:   "GHS",
		Stock:      100,
		Available:  true,
	})
	if err != nil {
		t.Fatalf("upsert cement: %v", err)
	}
	rod, err := products.Upsert(ctx, domain.Product{
		CategoryID: category.ID,
		Name:       "Iron Rod 12mm",
		Slug:       "iron-rod-12mm",
		PriceCents: 9800,
		Currency:   "GHS",
		Stock:      50,
		Available:  true,
	})
	if err != nil {
		t.Fatalf("upsert rod: %v", err)
	}
	return cement.ID, rod.ID
}

func TestPostgres_CreateWithLinesAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	cementID, rodID := seedProducts(ctx, t, pool)

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	created, err := repo.CreateWithLines(ctx, domain.Order{
		FirstName:         "Ama",
		LastName:          "Mensah",
		Email:             "ama@example.com",
		PhoneNumber:       "+233598670304",
		Region:            "Greater Accra",
		Address:           "12 Spintex Road",
		City:              "Accra",
		DeliveryMethod:    domain.DeliveryMethodFlat,
		DeliveryCostCents: 10000,
		Status:            domain.OrderStatusPending,
	}, []domain.OrderLine{
		{ProductID: cementID, UnitPriceCents: 11500, Quantity: 2},
		{ProductID: rodID, UnitPriceCents: 9800, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("CreateWithLines: %v", err)
	}
	if created.ID == "" || len(created.Lines) != 2 {
		t.Fatalf("unexpected created order %+v", created)
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.TotalCents() != 42800 {
		t.Fatalf("expected total 42800, got %d", fetched.TotalCents())
	}
	if len(fetched.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(fetched.Lines))
	}
	if fetched.Status != domain.OrderStatusPending || fetched.Paid {
		t.Fatalf("unexpected status fields %+v", fetched)
	}
}

func TestPostgres_CreateWithLinesRollsBackAsOne(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	cementID, _ := seedProducts(ctx, t, pool)

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	_, err := repo.CreateWithLines(ctx, domain.Order{
		FirstName:      "Ama",
		LastName:       "Mensah",
		Email:          "ama@example.com",
		Region:         "Greater Accra",
		Address:        "12 Spintex Road",
		City:           "Accra",
		DeliveryMethod: domain.DeliveryMethodFree,
		Status:         domain.OrderStatusPending,
	}, []domain.OrderLine{
		{ProductID: cementID, UnitPriceCents: 11500, Quantity: 1},
		// Violates the foreign key; the whole order must roll back.
		{ProductID: "00000000-0000-0000-0000-000000000000", UnitPriceCents: 100, Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected line insert to fail")
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 orders after rollback, got %d", count)
	}
}

func TestPostgres_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	cementID, _ := seedProducts(ctx, t, pool)

	var customerID string
	err := pool.QueryRow(ctx, `
INSERT INTO customers (username, email, password_hash)
VALUES ('ama', 'ama@example.com', 'x')
RETURNING id::text`).Scan(&customerID)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	if _, err := repo.CreateWithLines(ctx, domain.Order{
		CustomerID:     &customerID,
		FirstName:      "Ama",
		LastName:       "Mensah",
		Email:          "ama@example.com",
		Region:         "Greater Accra",
		Address:        "12 Spintex Road",
		City:           "Accra",
		DeliveryMethod: domain.DeliveryMethodFree,
		Status:         domain.OrderStatusPending,
	}, []domain.OrderLine{
		{ProductID: cementID, UnitPriceCents: 11500, Quantity: 1},
	}); err != nil {
		t.Fatalf("CreateWithLines: %v", err)
	}

	orders, err := repo.ListByCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].CustomerID == nil || *orders[0].CustomerID != customerID {
		t.Fatalf("expected order bound to customer, got %+v", orders[0])
	}
}
