package gateway

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/api"
	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/collection"
	"github.com/erazemk/zbirka/internal/db"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

var (
	_ collection.Gateway = (*Remote)(nil)
	_ collection.Gateway = (*Local)(nil)
)

const testJWTSecret = "test-secret"

func newItem() model.NewItem {
	return model.NewItem{
		Character:     "Labubu",
		Series:        "Have A Seat",
		Item:          "Sisi",
		PurchasePrice: decimal.RequireFromString("27.50"),
		Status:        model.StatusOwned,
		Notes:         "boxed",
	}
}

func strPtr(s string) *string { return &s }

// exercise runs the same CRUD scenario against any gateway.
func exercise(t *testing.T, gw collection.Gateway) {
	t.Helper()
	ctx := context.Background()

	first, err := gw.AddItem(ctx, newItem())
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Errorf("persisted item missing id or timestamps: %+v", first)
	}
	if first.Image == "" {
		t.Error("expected image filled in from the catalog")
	}

	second := newItem()
	second.Image = "https://example.com/own.png"
	if _, err := gw.AddItem(ctx, second); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	sell := decimal.NewNullDecimal(decimal.NewFromInt(40))
	err = gw.UpdateItem(ctx, first.ID, model.ItemPatch{Status: strPtr(model.StatusSold), SellPrice: &sell})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	items, err := gw.GetCollection(ctx)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Image != "https://example.com/own.png" {
		t.Errorf("expected newest first, got %+v", items[0])
	}
	got := items[1]
	if got.Status != model.StatusSold || !got.SellPrice.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Notes != "boxed" || !got.PurchasePrice.Equal(decimal.RequireFromString("27.5")) {
		t.Errorf("fields outside the patch changed: %+v", got)
	}

	err = gw.UpdateItem(ctx, "missing", model.ItemPatch{Notes: strPtr("x")})
	if !errors.Is(err, ErrBackend) {
		t.Errorf("UpdateItem(missing) = %v, want ErrBackend", err)
	}

	if err := gw.DeleteItem(ctx, first.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := gw.DeleteItem(ctx, first.ID); !errors.Is(err, ErrBackend) {
		t.Errorf("second DeleteItem = %v, want ErrBackend", err)
	}

	if gw.Catalog() != catalog.Get() {
		t.Error("Catalog should pass the bundled catalog through")
	}
}

func TestLocal(t *testing.T) {
	database := db.NewTestDB(t)
	user, err := store.CreateUser(context.Background(), database, "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	exercise(t, NewLocal(database, &auth.Session{UserID: user.ID, Email: user.Email}))
}

func TestRemote(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(api.NewRouter(database, testJWTSecret, nil))
	t.Cleanup(server.Close)

	ctx := context.Background()
	account := NewAccount(server.URL)
	session, err := account.SignUp(ctx, "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	exercise(t, NewRemote(server.URL, session))

	if _, err := account.SignUp(ctx, "ana@example.com", "secret123"); !errors.Is(err, ErrBackend) {
		t.Errorf("duplicate SignUp = %v, want ErrBackend", err)
	}
	if _, err := account.SignIn(ctx, "ana@example.com", "wrong-pass"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("SignIn with wrong password = %v, want ErrNotAuthenticated", err)
	}

	again, err := account.SignIn(ctx, "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := account.SignOut(ctx, again); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := NewRemote(server.URL, again).GetCollection(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("GetCollection after sign out = %v, want ErrNotAuthenticated", err)
	}

	if err := account.DeleteAccount(ctx, session); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
}

func TestNoSession(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)

	for name, gw := range map[string]collection.Gateway{
		"local":  NewLocal(database, nil),
		"remote": NewRemote("http://127.0.0.1:1", nil),
	} {
		if _, err := gw.AddItem(ctx, newItem()); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("%s AddItem = %v, want ErrNotAuthenticated", name, err)
		}
		if _, err := gw.GetCollection(ctx); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("%s GetCollection = %v, want ErrNotAuthenticated", name, err)
		}
	}
}

func TestBackendMessageVerbatim(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(api.NewRouter(database, testJWTSecret, nil))
	t.Cleanup(server.Close)

	session, _ := NewAccount(server.URL).SignUp(context.Background(), "ana@example.com", "secret123")
	err := NewRemote(server.URL, session).DeleteItem(context.Background(), "nope")
	if err == nil || err.Error() != "backend error: item not found" {
		t.Errorf("DeleteItem error = %v", err)
	}
}

func TestRowFields(t *testing.T) {
	if f := rowFields(model.ItemPatch{}); len(f) != 0 {
		t.Errorf("empty patch produced %v", f)
	}

	cleared := decimal.NullDecimal{}
	f := rowFields(model.ItemPatch{SellPrice: &cleared, Notes: strPtr("")})
	if len(f) != 2 {
		t.Fatalf("fields = %v", f)
	}
	if v, ok := f["sell_price"].(decimal.NullDecimal); !ok || v.Valid {
		t.Errorf("sell_price = %#v, want cleared", f["sell_price"])
	}
	if f["notes"] != "" {
		t.Errorf("notes = %#v", f["notes"])
	}
}
