package diary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/testutil"
	"calorie-tracker/pkg/realtime"
	"calorie-tracker/pkg/search"
	"calorie-tracker/pkg/syncqueue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	mu      sync.Mutex
	records map[string]domain.FoodRecord
}

func (r *stubResolver) set(rec domain.FoodRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Provenance.String()+"/"+rec.ID] = rec
}

func (r *stubResolver) Resolve(_ context.Context, _ string, source domain.Provenance, id string) (domain.FoodRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[source.String()+"/"+id]
	if !ok {
		return domain.FoodRecord{}, domain.ErrFoodNotFound
	}
	return rec, nil
}

type countingUsage struct {
	mu  sync.Mutex
	ids []string
}

func (u *countingUsage) IncrementUsage(_ context.Context, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ids = append(u.ids, id)
	return nil
}

type goalFunc func(ctx context.Context, userID string) (int, bool, error)

func (f goalFunc) CalorieGoal(ctx context.Context, userID string) (int, bool, error) {
	return f(ctx, userID)
}

// flakyRepo fails Create while down is set.
type flakyRepo struct {
	DiaryRepository
	mu    sync.Mutex
	down  bool
	calls int
}

func (r *flakyRepo) Create(ctx context.Context, e *entities.FoodEntry) error {
	r.mu.Lock()
	r.calls++
	down := r.down
	r.mu.Unlock()
	if down {
		return errors.New("connection reset by peer")
	}
	return r.DiaryRepository.Create(ctx, e)
}

type fixture struct {
	svc      DiaryService
	repo     *flakyRepo
	queue    *syncqueue.Queue
	hub      *realtime.Hub
	resolver *stubResolver
	usage    *countingUsage
}

var apple = domain.FoodRecord{
	ID:         "us-001",
	Name:       "Apple",
	Serving:    domain.Serving{Amount: 1, Unit: "medium"},
	Macros:     domain.Macros{Calories: 95, Protein: 0.5, Carbs: 25.1, Fat: 0.3},
	Provenance: domain.ProvenanceRegional,
}

func newFixture(t *testing.T, goals GoalProvider) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &entities.FoodEntry{})
	repo := &flakyRepo{DiaryRepository: NewDiaryRepository(db)}
	queue := syncqueue.New(syncqueue.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, nil, nil)
	hub := realtime.NewHub(16)
	resolver := &stubResolver{records: map[string]domain.FoodRecord{}}
	resolver.set(apple)
	usage := &countingUsage{}

	svc := NewDiaryService(repo, resolver, usage, goals, queue, hub)
	svc.(*diaryService).now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	return &fixture{svc: svc, repo: repo, queue: queue, hub: hub, resolver: resolver, usage: usage}
}

func appleRequest(qty float64) domain.AddFoodEntryRequest {
	return domain.AddFoodEntryRequest{
		Food:     domain.FoodRef{ID: "us-001", Source: "regional"},
		Meal:     "Breakfast",
		Quantity: qty,
	}
}

func TestAddEntryScalesAndRounds(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.AddEntry(context.Background(), "alice", appleRequest(1.5))
	require.NoError(t, err)

	assert.Equal(t, 143, res.Calories)
	assert.Equal(t, 0.8, res.Protein)
	assert.Equal(t, domain.MealBreakfast, res.Meal)
	assert.Equal(t, "2024-03-01", res.Date)
	assert.Equal(t, "regional", res.Source)
	assert.Equal(t, domain.EntryPersisted, res.State)

	stored, err := f.repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, stored.BaseCalories)
	assert.Equal(t, 143, stored.Calories)
}

func TestAddEntryValidatesBeforeTouchingTheStore(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	req := appleRequest(1)
	req.Meal = "  "
	_, err := f.svc.AddEntry(ctx, "alice", req)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	_, err = f.svc.AddEntry(ctx, "alice", appleRequest(0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.AddEntry(ctx, "alice", appleRequest(-2))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = appleRequest(1)
	req.Date = "03/01/2024"
	_, err = f.svc.AddEntry(ctx, "alice", req)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = f.svc.AddEntry(ctx, "alice", domain.AddFoodEntryRequest{Meal: "lunch", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	_, err = f.svc.AddEntry(ctx, "alice", domain.AddFoodEntryRequest{
		Food: domain.FoodRef{Name: "Mystery"}, Meal: "lunch", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	assert.Zero(t, f.repo.calls)
}

func TestAddEntryFallsBackToInlineValues(t *testing.T) {
	f := newFixture(t, nil)
	cal := 210.0

	res, err := f.svc.AddEntry(context.Background(), "alice", domain.AddFoodEntryRequest{
		Food:     domain.FoodRef{ID: "gone", Source: "recent", Name: "Leftover Curry", Calories: &cal, Protein: -3},
		Meal:     "dinner",
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Leftover Curry", res.FoodName)
	assert.Equal(t, 420, res.Calories)
	assert.Equal(t, 0.0, res.Protein)
	assert.Equal(t, "recent", res.Source)
}

func TestUnknownMealLandsInSnacks(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	req := appleRequest(1)
	req.Meal = "midnight feast"
	res, err := f.svc.AddEntry(ctx, "alice", req)
	require.NoError(t, err)
	assert.Equal(t, domain.MealSnacks, res.Meal)

	// rows written with a bogus meal by older clients are grouped the same way
	legacy := &entities.FoodEntry{UserID: "alice", FoodName: "Crackers", Meal: "Supper", Date: "2024-03-01", Quantity: 1, Calories: 120}
	require.NoError(t, f.repo.DiaryRepository.Create(ctx, legacy))

	day, err := f.svc.GetDay(ctx, "alice", "2024-03-01")
	require.NoError(t, err)
	snacks := day.Meals[3]
	assert.Equal(t, domain.MealSnacks, snacks.Meal)
	assert.Len(t, snacks.Entries, 2)
	assert.Equal(t, 215.0, snacks.Totals.Calories)
}

func TestGetDayGroupsTotalsAndGoal(t *testing.T) {
	f := newFixture(t, goalFunc(func(ctx context.Context, userID string) (int, bool, error) {
		return 2000, userID == "alice", nil
	}))
	ctx := context.Background()

	_, err := f.svc.AddEntry(ctx, "alice", appleRequest(1))
	require.NoError(t, err)
	lunch := appleRequest(2)
	lunch.Meal = "lunch"
	_, err = f.svc.AddEntry(ctx, "alice", lunch)
	require.NoError(t, err)
	_, err = f.svc.AddEntry(ctx, "bob", appleRequest(1))
	require.NoError(t, err)

	day, err := f.svc.GetDay(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", day.Date)
	require.Len(t, day.Meals, 4)
	for i, m := range domain.Meals {
		assert.Equal(t, m, day.Meals[i].Meal)
	}
	assert.Len(t, day.Meals[0].Entries, 1)
	assert.Len(t, day.Meals[1].Entries, 1)
	assert.Empty(t, day.Meals[2].Entries)
	assert.Equal(t, 285.0, day.Totals.Calories)
	require.NotNil(t, day.RemainingCalories)
	assert.Equal(t, 2000, *day.CalorieGoal)
	assert.Equal(t, 1715, *day.RemainingCalories)

	bobDay, err := f.svc.GetDay(ctx, "bob", "2024-03-01")
	require.NoError(t, err)
	assert.Nil(t, bobDay.CalorieGoal)

	_, err = f.svc.GetDay(ctx, "alice", "yesterday")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestUpdateRescalesFromSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.svc.AddEntry(ctx, "alice", appleRequest(1))
	require.NoError(t, err)

	// the source record changes after the entry was written
	changed := apple
	changed.Macros.Calories = 500
	f.resolver.set(changed)

	qty := 2.0
	meal := "dinner"
	updated, err := f.svc.UpdateEntry(ctx, "alice", res.ID, domain.UpdateFoodEntryRequest{Quantity: &qty, Meal: &meal})
	require.NoError(t, err)
	assert.Equal(t, 190, updated.Calories)
	assert.Equal(t, 1.0, updated.Protein)
	assert.Equal(t, domain.MealDinner, updated.Meal)
	assert.Equal(t, domain.EntryPersisted, updated.State)
}

func TestUpdateAndDeleteRejectForeignEntries(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.svc.AddEntry(ctx, "alice", appleRequest(1))
	require.NoError(t, err)

	qty := 10.0
	_, err = f.svc.UpdateEntry(ctx, "mallory", res.ID, domain.UpdateFoodEntryRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.DeleteEntry(ctx, "mallory", res.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stored.Quantity)
	assert.Equal(t, 95, stored.Calories)
	assert.Zero(t, f.queue.Len(), "ownership failures are not retried")
}

func TestUpdateAndDeleteMissingEntries(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	qty := 1.0

	_, err := f.svc.UpdateEntry(ctx, "alice", uuid.NewString(), domain.UpdateFoodEntryRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	_, err = f.svc.DeleteEntry(ctx, "alice", "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	zero := 0.0
	_, err = f.svc.UpdateEntry(ctx, "alice", uuid.NewString(), domain.UpdateFoodEntryRequest{Quantity: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sub := f.hub.Subscribe("alice")
	defer sub.Close()

	res, err := f.svc.AddEntry(ctx, "alice", appleRequest(1))
	require.NoError(t, err)

	state, err := f.svc.DeleteEntry(ctx, "alice", res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryDeleted, state)

	_, err = f.svc.DeleteEntry(ctx, "alice", res.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	assert.Equal(t, realtime.EventEntryCreated, (<-sub.C).Type)
	assert.Equal(t, realtime.EventEntryDeleted, (<-sub.C).Type)
}

func TestOfflineAddIsPendingUntilFlushed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sub := f.hub.Subscribe("alice")
	defer sub.Close()

	f.queue.SetOnline(false)
	res, err := f.svc.AddEntry(ctx, "alice", appleRequest(1))
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPending, res.State)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, realtime.EventEntryPending, (<-sub.C).Type)

	day, err := f.svc.GetDay(ctx, "alice", "2024-03-01")
	require.NoError(t, err)
	assert.Zero(t, day.Totals.Calories)

	f.queue.SetOnline(true)
	assert.Equal(t, 1, f.queue.Flush(ctx))

	day, err = f.svc.GetDay(ctx, "alice", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, day.Meals[0].Entries, 1)
	assert.Equal(t, res.ID, day.Meals[0].Entries[0].ID)
	assert.Equal(t, realtime.EventEntryCreated, (<-sub.C).Type)
}

func TestTransientFailureIsRetried(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.repo.down = true
	res, err := f.svc.AddEntry(ctx, "alice", appleRequest(1))
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPending, res.State)
	require.Len(t, f.queue.Pending("alice"), 1)

	f.repo.mu.Lock()
	f.repo.down = false
	f.repo.mu.Unlock()

	require.Eventually(t, func() bool {
		f.queue.Flush(ctx)
		return f.queue.Len() == 0
	}, time.Second, 5*time.Millisecond)

	_, err = f.repo.GetByID(ctx, res.ID)
	assert.NoError(t, err)
}

func TestSharedFoodUsageIsCounted(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.NewString()
	f.resolver.set(domain.FoodRecord{ID: id, Name: "Klepon", Macros: domain.Macros{Calories: 180}, Provenance: domain.ProvenanceShared})

	_, err := f.svc.AddEntry(context.Background(), "alice", domain.AddFoodEntryRequest{
		Food:     domain.FoodRef{ID: id, Source: "shared"},
		Meal:     "snacks",
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, f.usage.ids)

	_, err = f.svc.AddEntry(context.Background(), "alice", appleRequest(1))
	require.NoError(t, err)
	assert.Len(t, f.usage.ids, 1)
}

func TestRecentFoodsDedupByNameNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, name := range []string{"Apple", "Banana", "apple", "Coffee"} {
		e := &entities.FoodEntry{
			UserID: "alice", FoodName: name, Meal: "snacks", Date: "2024-03-01",
			Quantity: 2, Calories: 100 * (i + 1), BaseCalories: 50 * float64(i+1),
		}
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, f.repo.DiaryRepository.Create(ctx, e))
	}

	recent, err := f.svc.RecentFoods(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "Coffee", recent[0].Name)
	assert.Equal(t, "apple", recent[1].Name)
	assert.Equal(t, 150.0, recent[1].Macros.Calories)
	assert.Equal(t, "Banana", recent[2].Name)
	for _, r := range recent {
		assert.Equal(t, domain.ProvenanceRecent, r.Provenance)
	}

	limited, err := f.svc.RecentFoods(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecentFoodResolvesBeyondSearchWindow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		e := &entities.FoodEntry{
			UserID: "alice", FoodID: fmt.Sprintf("food-%02d", i), FoodName: fmt.Sprintf("Soup %02d", i),
			Meal: "dinner", Date: "2024-03-01", Quantity: 1, Calories: 100 + i, BaseCalories: float64(100 + i),
		}
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, f.repo.DiaryRepository.Create(ctx, e))
	}

	hits, err := search.NewRecentSource(f.svc, search.DefaultRecentWindow).Search(ctx, "alice", "soup 00", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "food-00", hits[0].ID)

	resolver := &search.Resolver{Recent: f.svc}
	rec, err := resolver.Resolve(ctx, "alice", domain.ProvenanceRecent, hits[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup 00", rec.Name)
	assert.Equal(t, 100.0, rec.Macros.Calories)
	assert.Equal(t, domain.ProvenanceRecent, rec.Provenance)

	_, err = resolver.Resolve(ctx, "bob", domain.ProvenanceRecent, "food-00")
	assert.ErrorIs(t, err, domain.ErrFoodNotFound)
}

func TestRecentFoodWithoutFoodIDUsesEntryID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	e := &entities.FoodEntry{
		UserID: "alice", FoodName: "Nasi Campur", Meal: "lunch", Date: "2024-03-01",
		Quantity: 2, Calories: 1000, BaseCalories: 500,
	}
	require.NoError(t, f.repo.DiaryRepository.Create(ctx, e))

	recent, err := f.svc.RecentFoods(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, e.ID.String(), recent[0].ID)

	rec, err := f.svc.RecentFood(ctx, "alice", recent[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Nasi Campur", rec.Name)
	assert.Equal(t, 500.0, rec.Macros.Calories)
}

// A foreign entry cannot be checked while the store is unreachable, so the
// write is queued and fails once connectivity returns.
func TestOfflineForeignMutationsAreAbandonedAsForbidden(t *testing.T) {
	db := testutil.NewDB(t, &entities.FoodEntry{})
	hub := realtime.NewHub(16)
	queue := syncqueue.New(syncqueue.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, nil, realtime.NewSyncFailedNotifier(hub))
	resolver := &stubResolver{records: map[string]domain.FoodRecord{}}
	resolver.set(apple)
	svc := NewDiaryService(NewDiaryRepository(db), resolver, nil, nil, queue, hub)
	ctx := context.Background()

	created, err := svc.AddEntry(ctx, "alice", appleRequest(1))
	require.NoError(t, err)

	bob := hub.Subscribe("bob")
	defer bob.Close()

	queue.SetOnline(false)
	state, err := svc.DeleteEntry(ctx, "bob", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPending, state)

	qty := 3.0
	updated, err := svc.UpdateEntry(ctx, "bob", created.ID, domain.UpdateFoodEntryRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPending, updated.State)

	queue.SetOnline(true)
	assert.Equal(t, 2, queue.Flush(ctx))
	assert.Zero(t, queue.Len())

	for _, kind := range []string{KindDelete, KindUpdate} {
		select {
		case ev := <-bob.C:
			require.Equal(t, realtime.EventSyncFailed, ev.Type)
			payload, ok := ev.Data.(realtime.SyncFailed)
			require.True(t, ok)
			assert.Equal(t, kind, payload.Kind)
			assert.Equal(t, domain.ErrForbidden.Error(), payload.Error)
		case <-time.After(time.Second):
			t.Fatalf("no sync_failed event for %s", kind)
		}
	}

	day, err := svc.GetDay(ctx, "alice", created.Date)
	require.NoError(t, err)
	assert.Equal(t, float64(created.Calories), day.Totals.Calories)
}
