package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/techhire/techhire-api/config"
	"github.com/techhire/techhire-api/database"
	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/services/push"
	"gorm.io/gorm"
)

// setupIntegrationDB connects to the Postgres configured via env. Tests that
// call this create uniquely-named rows and clean them up themselves.
func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	// A missing .env is fine when the variables come from the environment.
	_ = config.LoadENV()

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		t.Fatal("failed to get GORM DB instance")
	}
	return db
}

func testEndpoint(prefix string) string {
	return fmt.Sprintf("https://push.example/%s/%s", prefix, uuid.New().String())
}

func TestSubscriptionUpsertIdempotent(t *testing.T) {
	db := setupIntegrationDB(t)
	store := NewSubscriptionStore(db)
	ctx := context.Background()

	endpoint := testEndpoint("upsert")
	t.Cleanup(func() {
		db.Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{})
	})

	first, err := store.Upsert(ctx, endpoint, []byte(`{"keys":{}}`), "2025", "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Re-subscribing with a different batch overwrites in place.
	second, err := store.Upsert(ctx, endpoint, []byte(`{"keys":{}}`), "2026", "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("re-subscribe created a new row: %d then %d", first.ID, second.ID)
	}
	if second.Batch != "2026" {
		t.Errorf("Batch = %q, want overwritten to 2026", second.Batch)
	}

	var count int64
	db.Model(&model.PushSubscription{}).Where("endpoint = ?", endpoint).Count(&count)
	if count != 1 {
		t.Errorf("rows for endpoint = %d, want 1", count)
	}
}

func TestSubscriptionDeactivate(t *testing.T) {
	db := setupIntegrationDB(t)
	store := NewSubscriptionStore(db)
	ctx := context.Background()

	endpoint := testEndpoint("deactivate")
	t.Cleanup(func() {
		db.Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{})
	})

	if _, err := store.Upsert(ctx, endpoint, []byte(`{}`), "2025", "", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	existed, err := store.Deactivate(ctx, endpoint)
	if err != nil || !existed {
		t.Fatalf("Deactivate = (%v, %v), want (true, nil)", existed, err)
	}

	// Unknown endpoint is not an error.
	existed, err = store.Deactivate(ctx, testEndpoint("never-registered"))
	if err != nil {
		t.Fatalf("Deactivate unknown: %v", err)
	}
	if existed {
		t.Error("Deactivate reported a row for an unknown endpoint")
	}

	// A re-subscribe flips it back on.
	sub, err := store.Upsert(ctx, endpoint, []byte(`{}`), "2025", "", "")
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if !sub.IsActive {
		t.Error("re-subscribed endpoint still inactive")
	}
}

func TestFindActiveByBatchesFiltering(t *testing.T) {
	db := setupIntegrationDB(t)
	store := NewSubscriptionStore(db)
	ctx := context.Background()

	// Batch names are unique per test run so rows from other runs cannot
	// leak into the filtered queries.
	batchA := uuid.New().String()[:8]
	batchB := uuid.New().String()[:8]

	endpoints := []string{
		testEndpoint("filter"),
		testEndpoint("filter"),
		testEndpoint("filter"),
	}
	t.Cleanup(func() {
		db.Where("endpoint IN ?", endpoints).Delete(&model.PushSubscription{})
	})

	if _, err := store.Upsert(ctx, endpoints[0], []byte(`{}`), batchA, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Upsert(ctx, endpoints[1], []byte(`{}`), batchB, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Upsert(ctx, endpoints[2], []byte(`{}`), batchA, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Deactivate(ctx, endpoints[2]); err != nil {
		t.Fatal(err)
	}

	got, err := store.FindActiveByBatches(ctx, []string{batchA})
	if err != nil {
		t.Fatalf("FindActiveByBatches: %v", err)
	}
	if len(got) != 1 || got[0].Endpoint != endpoints[0] {
		t.Errorf("filtered resolution returned %d rows, want only the active %s subscriber", len(got), batchA)
	}

	both, err := store.FindActiveByBatches(ctx, []string{batchA, batchB})
	if err != nil {
		t.Fatalf("FindActiveByBatches: %v", err)
	}
	if len(both) != 2 {
		t.Errorf("two-batch resolution returned %d rows, want 2", len(both))
	}
}

func TestResolveOrCreateBatchesRoundTrip(t *testing.T) {
	db := setupIntegrationDB(t)
	catalog := NewCatalogService(db, nil)
	ctx := context.Background()

	name := uuid.New().String()[:8]
	t.Cleanup(func() {
		db.Where("name = ?", name).Delete(&model.Batch{})
	})

	first, warnings, err := catalog.ResolveOrCreateBatches(ctx, name)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(first) != 1 || first[0].Name != name {
		t.Fatalf("resolved %v, want one batch %q", first, name)
	}

	// Resolving the same name again reuses the row.
	second, _, err := catalog.ResolveOrCreateBatches(ctx, name)
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if len(second) != 1 || second[0].ID != first[0].ID {
		t.Errorf("second resolution created a new row: %+v vs %+v", second, first)
	}
}

// stubSender lets the dispatch path run against the real store without
// talking to a push service.
type stubSender struct {
	errs  map[uint]error
	sends []uint
}

func (s *stubSender) Send(_ context.Context, credential []byte, _ []byte) error {
	// Credentials in these tests carry the subscription ID as plain text.
	var id uint
	fmt.Sscanf(string(credential), "%d", &id)
	s.sends = append(s.sends, id)
	return s.errs[id]
}

func TestDispatchPersistsDeliveryState(t *testing.T) {
	db := setupIntegrationDB(t)
	store := NewSubscriptionStore(db)
	ctx := context.Background()

	batch := uuid.New().String()[:8]
	okEndpoint := testEndpoint("dispatch-ok")
	goneEndpoint := testEndpoint("dispatch-gone")
	t.Cleanup(func() {
		db.Where("endpoint IN ?", []string{okEndpoint, goneEndpoint}).Delete(&model.PushSubscription{})
	})

	okSub, err := store.Upsert(ctx, okEndpoint, []byte(`0`), batch, "", "")
	if err != nil {
		t.Fatal(err)
	}
	goneSub, err := store.Upsert(ctx, goneEndpoint, []byte(`0`), batch, "", "")
	if err != nil {
		t.Fatal(err)
	}

	// Rewrite credentials to carry the row IDs so the stub can tell the
	// two subscriptions apart.
	db.Model(okSub).Update("credential", fmt.Sprintf("%d", okSub.ID))
	db.Model(goneSub).Update("credential", fmt.Sprintf("%d", goneSub.ID))

	sender := &stubSender{errs: map[uint]error{goneSub.ID: push.ErrEndpointGone}}
	keys := push.VAPIDKeys{PublicKey: "pub", PrivateKey: "priv", Subject: "mailto:test@example.com"}
	runner := push.NewRunner(1, 4)
	defer runner.Drain(time.Second)
	dispatcher := push.NewDispatcher(store, sender, keys, runner)

	res := dispatcher.Dispatch(ctx, push.Payload{Title: "t"}, []string{batch})
	if res.Sent != 1 || res.Failed != 1 {
		t.Fatalf("Dispatch = %+v, want sent=1 failed=1", res)
	}

	var reloadedOK, reloadedGone model.PushSubscription
	if err := db.First(&reloadedOK, okSub.ID).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.First(&reloadedGone, goneSub.ID).Error; err != nil {
		t.Fatal(err)
	}

	if reloadedOK.LastNotifiedAt == nil {
		t.Error("delivered subscription has no last-notified timestamp")
	}
	if !reloadedOK.IsActive {
		t.Error("delivered subscription was deactivated")
	}
	if reloadedGone.IsActive {
		t.Error("gone endpoint still active after terminal failure")
	}
}
