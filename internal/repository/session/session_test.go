package session

import (
	"context"
	"errors"
	"os"
	"testing"

	"buildkit-store/internal/domain"
	"buildkit-store/internal/migrate"
	sess "buildkit-store/internal/session"
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

func TestPostgres_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE sessions`); err != nil {
		t.Fatalf("truncate sessions: %v", err)
	}

	repo := NewPostgres(pool)

	if _, err := repo.Load(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	data := sess.Data{
		"cart": []interface{}{
			map[string]interface{}{"product_id": "p1", "quantity": int64(2), "unit_price_cents": int64(11500)},
		},
		"region": "Greater Accra",
	}
	if err := repo.Save(ctx, "s1", data); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded["region"] != "Greater Accra" {
		t.Fatalf("unexpected region %v", loaded["region"])
	}
	items, ok := loaded["cart"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("expected cart line, got %v", loaded["cart"])
	}
	entry := items[0].(map[string]interface{})
	if sess.Int64(entry["quantity"]) != 2 {
		t.Fatalf("expected quantity 2, got %v", entry["quantity"])
	}

	// Saving again replaces the data wholesale.
	if err := repo.Save(ctx, "s1", sess.Data{"region": "Ashanti"}); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	loaded, err = repo.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := loaded["cart"]; ok {
		t.Fatal("expected cart gone after overwrite")
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Load(ctx, "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
