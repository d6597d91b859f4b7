package inventory_test

import (
	"testing"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/inventory"
	"github.com/shopcore/storefront-api/testutil"
)

func TestCheck(t *testing.T) {
	db := testutil.OpenDB(t)
	guard := inventory.NewGuard(db)
	activeID := testutil.SeedProduct(t, db, "widget", 10.0, 5, true)
	inactiveID := testutil.SeedProduct(t, db, "retired", 10.0, 5, false)

	if err := guard.Check(activeID, 5); err != nil {
		t.Fatalf("Check within stock: %v", err)
	}
	if got := apperrors.CodeOf(guard.Check(activeID, 6)); got != apperrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_INVENTORY, got %s", got)
	}
	if got := apperrors.CodeOf(guard.Check(inactiveID, 1)); got != apperrors.CodeProductInactive {
		t.Fatalf("expected PRODUCT_INACTIVE, got %s", got)
	}
	if got := apperrors.CodeOf(guard.Check(9999, 1)); got != apperrors.CodeProductNotFound {
		t.Fatalf("expected PRODUCT_NOT_FOUND, got %s", got)
	}
}

func TestCheck_DoesNotReserve(t *testing.T) {
	db := testutil.OpenDB(t)
	guard := inventory.NewGuard(db)
	id := testutil.SeedProduct(t, db, "widget", 10.0, 5, true)

	if err := guard.Check(id, 5); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := testutil.Stock(t, db, id); got != 5 {
		t.Fatalf("soft check moved stock: %d", got)
	}
}

func TestReserve(t *testing.T) {
	db := testutil.OpenDB(t)
	guard := inventory.NewGuard(db)
	id := testutil.SeedProduct(t, db, "widget", 10.0, 3, true)

	if err := guard.Reserve(db, id, 2); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if got := testutil.Stock(t, db, id); got != 1 {
		t.Fatalf("expected stock 1, got %d", got)
	}

	// The conditional update refuses to go below zero.
	err := guard.Reserve(db, id, 2)
	if got := apperrors.CodeOf(err); got != apperrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_INVENTORY, got %v", err)
	}
	if got := testutil.Stock(t, db, id); got != 1 {
		t.Fatalf("failed reserve moved stock: %d", got)
	}

	// Taking exactly the remainder is allowed.
	if err := guard.Reserve(db, id, 1); err != nil {
		t.Fatalf("Reserve remainder: %v", err)
	}
	if got := testutil.Stock(t, db, id); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
}

func TestRelease(t *testing.T) {
	db := testutil.OpenDB(t)
	guard := inventory.NewGuard(db)
	id := testutil.SeedProduct(t, db, "widget", 10.0, 0, true)

	if err := guard.Release(db, id, 4); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if got := testutil.Stock(t, db, id); got != 4 {
		t.Fatalf("expected stock 4, got %d", got)
	}

	err := guard.Release(db, 9999, 1)
	if got := apperrors.CodeOf(err); got != apperrors.CodeProductNotFound {
		t.Fatalf("expected PRODUCT_NOT_FOUND, got %v", err)
	}
}
