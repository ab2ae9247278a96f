package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/models"
	"github.com/Matheusaraujo007/Lista-da-vez/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newTestStore(t *testing.T) (*Store, *pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := createSchema(ctx, dsn, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	pool, err := newPoolWithSchema(ctx, dsn, schema)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	st := NewStore(pool)
	cleanup := func() {
		pool.Close()
		_ = dropSchema(context.Background(), dsn, schema)
	}
	return st, pool, cleanup
}

func createSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(ctx) }()
	_, err = conn.Exec(ctx, "CREATE SCHEMA "+schema)
	return err
}

func dropSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(ctx) }()
	_, err = conn.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
	return err
}

func newPoolWithSchema(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	return pgxpool.NewWithConfig(ctx, cfg)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return err
		}
	}
	return nil
}

func currentQueue(t *testing.T, st *Store) []models.Seller {
	t.Helper()
	ctx := context.Background()
	sellers, err := st.ListSellers(ctx)
	if err != nil {
		t.Fatalf("list sellers: %v", err)
	}
	statuses, err := st.ListCustomStatuses(ctx)
	if err != nil {
		t.Fatalf("list statuses: %v", err)
	}
	return store.QueueOrder(sellers, store.StatusIndex(statuses))
}

func mustCreateSeller(t *testing.T, st *Store, name string) models.Seller {
	t.Helper()
	seller, err := st.CreateSeller(context.Background(), name, "")
	if err != nil {
		t.Fatalf("create seller %s: %v", name, err)
	}
	return seller
}

func TestCreateSellerAssignsTailPositions(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()

	a := mustCreateSeller(t, st, "Ana")
	b := mustCreateSeller(t, st, "Bruno")
	c := mustCreateSeller(t, st, "Carla")

	for i, seller := range []models.Seller{a, b, c} {
		if seller.QueuePosition == nil || *seller.QueuePosition != i+1 {
			t.Fatalf("seller %s: expected position %d, got %v", seller.Name, i+1, seller.QueuePosition)
		}
		if seller.Status != models.StatusAvailable {
			t.Fatalf("seller %s: expected AVAILABLE, got %s", seller.Name, seller.Status)
		}
	}
}

func TestTransitionClearsAndReassignsPosition(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	a := mustCreateSeller(t, st, "Ana")
	mustCreateSeller(t, st, "Bruno")

	onLunch, err := st.TransitionStatus(ctx, a.SellerID, models.StatusLunch)
	if err != nil {
		t.Fatalf("to lunch: %v", err)
	}
	if onLunch.QueuePosition != nil {
		t.Fatalf("lunch must clear the position, got %v", *onLunch.QueuePosition)
	}

	back, err := st.TransitionStatus(ctx, a.SellerID, models.StatusAvailable)
	if err != nil {
		t.Fatalf("back to available: %v", err)
	}
	if back.QueuePosition == nil || *back.QueuePosition != 3 {
		t.Fatalf("returning seller must join the tail, got %v", back.QueuePosition)
	}

	// Re-entering while already positioned keeps the slot.
	again, err := st.TransitionStatus(ctx, a.SellerID, models.StatusAvailable)
	if err != nil {
		t.Fatalf("idempotent transition: %v", err)
	}
	if again.QueuePosition == nil || *again.QueuePosition != 3 {
		t.Fatalf("position must be untouched, got %v", again.QueuePosition)
	}
}

func TestConcurrentQueueEntryUniquePositions(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	const n = 10
	sellers := make([]models.Seller, n)
	for i := range sellers {
		sellers[i] = mustCreateSeller(t, st, "Vendedor")
		if _, err := st.TransitionStatus(ctx, sellers[i].SellerID, models.StatusAway); err != nil {
			t.Fatalf("to away: %v", err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range sellers {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := st.TransitionStatus(ctx, id, models.StatusAvailable); err != nil {
				errs <- err
			}
		}(sellers[i].SellerID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent transition: %v", err)
	}

	queue := currentQueue(t, st)
	if len(queue) != n {
		t.Fatalf("expected %d sellers in queue, got %d", n, len(queue))
	}
	seen := map[int]bool{}
	for _, seller := range queue {
		if seller.QueuePosition == nil {
			t.Fatalf("queued seller without position: %+v", seller)
		}
		if seen[*seller.QueuePosition] {
			t.Fatalf("duplicate queue position %d", *seller.QueuePosition)
		}
		seen[*seller.QueuePosition] = true
	}
}

func TestAssignServiceLifecycle(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	first := mustCreateSeller(t, st, "Ana")
	second := mustCreateSeller(t, st, "Bruno")

	_, err := st.AssignService(ctx, store.AssignServiceInput{
		SellerID:    second.SellerID,
		ClientName:  "Maria",
		ServiceType: models.TypePurchase,
	})
	if !errors.Is(err, store.ErrNotNextInQueue) {
		t.Fatalf("expected ErrNotNextInQueue, got %v", err)
	}

	record, err := st.AssignService(ctx, store.AssignServiceInput{
		SellerID:      first.SellerID,
		ClientName:    "Maria",
		ClientContact: "5511999990000",
		ServiceType:   models.TypePurchase,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if record.Status != models.ServicePending {
		t.Fatalf("expected PENDING, got %s", record.Status)
	}

	busy, err := st.GetSeller(ctx, first.SellerID)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if busy.Status != models.StatusInService || busy.QueuePosition != nil {
		t.Fatalf("assigned seller must be IN_SERVICE with no position, got %+v", busy)
	}
	if busy.ActiveServiceID != record.ServiceID || busy.ActiveClientName != "Maria" {
		t.Fatalf("active service projection missing: %+v", busy)
	}

	client, err := st.GetClient(ctx, "5511999990000")
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if client.Name != "Maria" || client.LastSellerID != first.SellerID {
		t.Fatalf("unexpected client record: %+v", client)
	}

	completed, err := st.CompleteService(ctx, store.CompleteServiceInput{
		ServiceID:  record.ServiceID,
		IsSale:     true,
		SaleValue:  320.5,
		ItemsCount: 3,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != models.ServiceCompleted || completed.CompletedAt == nil {
		t.Fatalf("unexpected completed record: %+v", completed)
	}

	returned, err := st.GetSeller(ctx, first.SellerID)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if returned.Status != models.StatusAvailable {
		t.Fatalf("seller must return to AVAILABLE, got %s", returned.Status)
	}
	if returned.QueuePosition == nil || *returned.QueuePosition <= *second.QueuePosition {
		t.Fatalf("seller must rejoin at the tail, got %v", returned.QueuePosition)
	}
	if returned.LastServiceAt == nil {
		t.Fatalf("last service timestamp not set")
	}
}

func TestAssignServiceOverrideAndBusyGuard(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustCreateSeller(t, st, "Ana")
	second := mustCreateSeller(t, st, "Bruno")

	record, err := st.AssignService(ctx, store.AssignServiceInput{
		SellerID:    second.SellerID,
		ClientName:  "João",
		ServiceType: models.TypeQuote,
		Override:    true,
	})
	if err != nil {
		t.Fatalf("override assign: %v", err)
	}
	if record.Status != models.ServicePending {
		t.Fatalf("expected PENDING, got %s", record.Status)
	}

	_, err = st.AssignService(ctx, store.AssignServiceInput{
		SellerID:    second.SellerID,
		ClientName:  "Pedro",
		ServiceType: models.TypeInquiry,
		Override:    true,
	})
	if !errors.Is(err, store.ErrInvalidState) && !errors.Is(err, store.ErrSellerBusy) {
		t.Fatalf("busy seller must be rejected, got %v", err)
	}
}

func TestCompleteServiceFirstWriterWins(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seller := mustCreateSeller(t, st, "Ana")
	record, err := st.AssignService(ctx, store.AssignServiceInput{
		SellerID:    seller.SellerID,
		ClientName:  "Maria",
		ServiceType: models.TypePurchase,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	const attempts = 5
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.CompleteService(ctx, store.CompleteServiceInput{
				ServiceID:  record.ServiceID,
				IsSale:     true,
				SaleValue:  100,
				ItemsCount: 1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, store.ErrInvalidState):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != attempts-1 {
		t.Fatalf("expected exactly one winner, got %d winners and %d conflicts", succeeded, conflicted)
	}
}

func TestCancelServiceReturnsSeller(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seller := mustCreateSeller(t, st, "Ana")
	record, err := st.AssignService(ctx, store.AssignServiceInput{
		SellerID:    seller.SellerID,
		ClientName:  "Maria",
		ServiceType: models.TypeReactivation,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	cancelled, err := st.CancelService(ctx, record.ServiceID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.ServiceCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	returned, err := st.GetSeller(ctx, seller.SellerID)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if returned.Status != models.StatusAvailable || returned.QueuePosition == nil {
		t.Fatalf("cancelled seller must rejoin the queue, got %+v", returned)
	}

	_, err = st.CancelService(ctx, record.ServiceID)
	if !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("double cancel must conflict, got %v", err)
	}
}

func TestCustomStatusEligibility(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seller := mustCreateSeller(t, st, "Ana")

	active, err := st.CreateCustomStatus(ctx, models.CustomStatus{Label: "Treinamento", Behavior: models.BehaviorActive})
	if err != nil {
		t.Fatalf("create status: %v", err)
	}

	inTraining, err := st.TransitionStatus(ctx, seller.SellerID, active.StatusID)
	if err != nil {
		t.Fatalf("to custom status: %v", err)
	}
	if inTraining.QueuePosition == nil {
		t.Fatalf("ACTIVE custom status must keep the seller in rotation")
	}

	// Flipping the behavior pulls the holder out of rotation.
	active.Behavior = models.BehaviorInactive
	if _, err := st.UpdateCustomStatus(ctx, active); err != nil {
		t.Fatalf("update status: %v", err)
	}
	pulled, err := st.GetSeller(ctx, seller.SellerID)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if pulled.QueuePosition != nil {
		t.Fatalf("INACTIVE behavior must clear positions, got %v", *pulled.QueuePosition)
	}

	_, err = st.TransitionStatus(ctx, seller.SellerID, uuid.NewString())
	if !errors.Is(err, store.ErrStatusNotFound) {
		t.Fatalf("unknown custom status must be rejected, got %v", err)
	}

	if err := st.DeleteCustomStatus(ctx, active.StatusID); err != nil {
		t.Fatalf("delete status: %v", err)
	}
	if queue := currentQueue(t, st); len(queue) != 0 {
		t.Fatalf("holder of a deleted status must not be queued, got %d", len(queue))
	}
}

func TestGoalsRoundtrip(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	empty, err := st.GetStoreGoals(ctx)
	if err != nil {
		t.Fatalf("get empty goals: %v", err)
	}
	if empty.Revenue != 0 {
		t.Fatalf("unset goals must be zero, got %+v", empty)
	}

	saved, err := st.UpsertStoreGoals(ctx, models.StoreGoals{Revenue: 50000, UnitsPerSale: 2, AverageTicket: 180, ConversionRate: 45})
	if err != nil {
		t.Fatalf("upsert goals: %v", err)
	}
	if saved.Revenue != 50000 || saved.UpdatedAt.IsZero() {
		t.Fatalf("unexpected saved goals: %+v", saved)
	}

	seller := mustCreateSeller(t, st, "Ana")
	revenue := 8000.0
	if err := st.UpsertSellerGoals(ctx, seller.SellerID, models.SellerGoals{Revenue: &revenue}); err != nil {
		t.Fatalf("seller goals: %v", err)
	}
	loaded, err := st.GetSeller(ctx, seller.SellerID)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if loaded.Goals == nil || loaded.Goals.Revenue == nil || *loaded.Goals.Revenue != 8000 {
		t.Fatalf("seller goal override missing: %+v", loaded.Goals)
	}
}

func TestListServicesByRange(t *testing.T) {
	st, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seller := mustCreateSeller(t, st, "Ana")
	old := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	if _, err := st.AssignService(ctx, store.AssignServiceInput{
		SellerID:    seller.SellerID,
		ClientName:  "Maria",
		ServiceType: models.TypePurchase,
		CreatedAt:   old,
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	records, err := st.ListServices(ctx, store.ServiceFilter{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("range filter leaked %d records", len(records))
	}

	records, err = st.ListServices(ctx, store.ServiceFilter{SellerID: seller.SellerID, Status: models.ServicePending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}
