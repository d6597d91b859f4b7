package cart_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/shopcore/storefront-api/cart"
	"github.com/shopcore/storefront-api/inventory"
	"github.com/shopcore/storefront-api/models"
	"github.com/shopcore/storefront-api/testutil"
)

func TestMerge_SumsIntoUserCart(t *testing.T) {
	db := testutil.OpenDB(t)
	store := cart.NewStore(db, inventory.NewGuard(db), zap.NewNop())
	aID := testutil.SeedProduct(t, db, "a", 10.0, 20, true)
	bID := testutil.SeedProduct(t, db, "b", 5.0, 20, true)

	guest := models.GuestOwner("guest_xyz")
	user := models.UserOwner("user-1")

	if _, err := store.AddItem(guest, aID, 2); err != nil {
		t.Fatalf("guest AddItem: %v", err)
	}
	if _, err := store.AddItem(guest, bID, 1); err != nil {
		t.Fatalf("guest AddItem: %v", err)
	}
	if _, err := store.AddItem(user, aID, 3); err != nil {
		t.Fatalf("user AddItem: %v", err)
	}

	merged, err := store.Merge("guest_xyz", "user-1")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	quantities := map[uint]int{}
	for _, line := range merged.Lines {
		quantities[line.ProductID] = line.Quantity
	}
	if quantities[aID] != 5 {
		t.Fatalf("expected product a quantity 5 (3 user + 2 guest), got %d", quantities[aID])
	}
	if quantities[bID] != 1 {
		t.Fatalf("expected product b quantity 1, got %d", quantities[bID])
	}
}

func TestMerge_SecondCallIsNoOp(t *testing.T) {
	db := testutil.OpenDB(t)
	store := cart.NewStore(db, inventory.NewGuard(db), zap.NewNop())
	aID := testutil.SeedProduct(t, db, "a", 10.0, 20, true)

	guest := models.GuestOwner("guest_xyz")
	if _, err := store.AddItem(guest, aID, 2); err != nil {
		t.Fatalf("guest AddItem: %v", err)
	}

	first, err := store.Merge("guest_xyz", "user-1")
	if err != nil {
		t.Fatalf("first Merge: %v", err)
	}
	second, err := store.Merge("guest_xyz", "user-1")
	if err != nil {
		t.Fatalf("second Merge: %v", err)
	}

	if first.Lines[0].Quantity != 2 || second.Lines[0].Quantity != 2 {
		t.Fatalf("second merge double-applied: first %d, second %d",
			first.Lines[0].Quantity, second.Lines[0].Quantity)
	}

	// The guest cart is gone.
	var count int64
	db.Model(&models.Cart{}).
		Where("owner_kind = ? AND owner_key = ?", models.OwnerKindGuest, "guest_xyz").
		Count(&count)
	if count != 0 {
		t.Fatalf("guest cart still exists after merge")
	}
}

func TestMerge_MissingGuestCartIsNoOp(t *testing.T) {
	db := testutil.OpenDB(t)
	store := cart.NewStore(db, inventory.NewGuard(db), zap.NewNop())

	merged, err := store.Merge("never_existed", "user-1")
	if err != nil {
		t.Fatalf("Merge with absent guest cart: %v", err)
	}
	if len(merged.Lines) != 0 {
		t.Fatalf("expected empty user cart, got %d lines", len(merged.Lines))
	}
}

func TestMerge_ClampsToStock(t *testing.T) {
	db := testutil.OpenDB(t)
	store := cart.NewStore(db, inventory.NewGuard(db), zap.NewNop())
	aID := testutil.SeedProduct(t, db, "a", 10.0, 10, true)

	guest := models.GuestOwner("guest_xyz")
	user := models.UserOwner("user-1")
	if _, err := store.AddItem(guest, aID, 6); err != nil {
		t.Fatalf("guest AddItem: %v", err)
	}
	if _, err := store.AddItem(user, aID, 6); err != nil {
		t.Fatalf("user AddItem: %v", err)
	}

	// 6 + 6 exceeds the 10 in stock; the merged line is clamped, not failed.
	merged, err := store.Merge("guest_xyz", "user-1")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := merged.Lines[0].Quantity; got != 10 {
		t.Fatalf("expected clamped quantity 10, got %d", got)
	}
}

func TestMerge_DropsUnavailableProducts(t *testing.T) {
	db := testutil.OpenDB(t)
	store := cart.NewStore(db, inventory.NewGuard(db), zap.NewNop())
	aID := testutil.SeedProduct(t, db, "a", 10.0, 10, true)
	bID := testutil.SeedProduct(t, db, "b", 5.0, 10, true)

	guest := models.GuestOwner("guest_xyz")
	if _, err := store.AddItem(guest, aID, 1); err != nil {
		t.Fatalf("guest AddItem: %v", err)
	}
	if _, err := store.AddItem(guest, bID, 1); err != nil {
		t.Fatalf("guest AddItem: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", bID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	merged, err := store.Merge("guest_xyz", "user-1")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged.Lines) != 1 || merged.Lines[0].ProductID != aID {
		t.Fatalf("expected only the active product to merge, got %+v", merged.Lines)
	}
}
