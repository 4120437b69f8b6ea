package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/testutil"
	"calorie-tracker/internal/utils"
	"calorie-tracker/pkg/diary"
	"calorie-tracker/pkg/realtime"
	"calorie-tracker/pkg/search"
	"calorie-tracker/pkg/syncqueue"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// newTestApp stands in for the auth middleware by trusting X-User.
func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", c.Get("X-User", "alice"))
		return c.Next()
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestSearchFoods(t *testing.T) {
	app := newTestApp()
	h := NewSearchHandler(search.NewSearchService(search.NewRegionalSource("us")))
	app.Get("/foods/search", h.SearchFoods)

	status, env := do(t, app, http.MethodGet, "/foods/search?q=apple&limit=2", "")
	require.Equal(t, fiber.StatusOK, status)
	var res domain.SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Results, 2)
	assert.Equal(t, "Apple", res.Results[0].Name)
	assert.Equal(t, "Apple Pie", res.Results[1].Name)

	status, env = do(t, app, http.MethodGet, "/foods/search?q=a", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Empty(t, res.Results)

	status, _ = do(t, app, http.MethodGet, "/foods/search?q=apple&limit=lots", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/foods/search?q=apple&sources=nowhere", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/foods/search?q=apple&sources=shared", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestRegionalFoods(t *testing.T) {
	app := newTestApp()
	h := NewSearchHandler(search.NewSearchService())
	app.Get("/foods/regional", h.GetRegions)
	app.Get("/foods/regional/:region", h.GetRegionalFoods)

	status, env := do(t, app, http.MethodGet, "/foods/regional", "")
	require.Equal(t, fiber.StatusOK, status)
	var regions []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &regions))
	assert.NotEmpty(t, regions)

	status, env = do(t, app, http.MethodGet, "/foods/regional/us?category=Fruits", "")
	require.Equal(t, fiber.StatusOK, status)
	var foods []domain.FoodRecord
	require.NoError(t, json.Unmarshal(env.Data, &foods))
	assert.NotEmpty(t, foods)
	for _, f := range foods {
		assert.Equal(t, "Fruits", f.Category)
	}

	status, env = do(t, app, http.MethodGet, "/foods/regional/us?category=Starships", "")
	require.Equal(t, fiber.StatusOK, status)
	foods = nil
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &foods))
	}
	assert.Empty(t, foods)

	status, _ = do(t, app, http.MethodGet, "/foods/regional/atlantis", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func newDiaryApp(t *testing.T) (*fiber.App, *syncqueue.Queue) {
	t.Helper()
	utils.InitValidator()

	db := testutil.NewDB(t, &entities.FoodEntry{})
	queue := syncqueue.New(syncqueue.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, nil, nil)
	hub := realtime.NewHub(16)
	svc := diary.NewDiaryService(diary.NewDiaryRepository(db), &search.Resolver{}, nil, nil, queue, hub)

	app := newTestApp()
	h := NewDiaryHandler(svc, hub, utils.Validate)
	app.Get("/diary", h.GetDay)
	app.Post("/diary/entries", h.AddEntry)
	app.Delete("/diary/entries/:id", h.DeleteEntry)
	app.Get("/sync/pending", NewSyncHandler(queue).GetPending)
	return app, queue
}

const appleEntry = `{"food":{"food_id":"us-001","source":"regional"},"meal":"lunch","quantity":2,"date":"2024-03-01"}`

func TestAddEntryStatusCodes(t *testing.T) {
	app, queue := newDiaryApp(t)

	status, env := do(t, app, http.MethodPost, "/diary/entries", appleEntry)
	require.Equal(t, fiber.StatusCreated, status, string(env.Error))
	var entry domain.FoodEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, 190, entry.Calories)
	assert.Equal(t, domain.EntryPersisted, entry.State)

	status, env = do(t, app, http.MethodGet, "/diary?date=2024-03-01", "")
	require.Equal(t, fiber.StatusOK, status)
	var day domain.DiaryDay
	require.NoError(t, json.Unmarshal(env.Data, &day))
	assert.Equal(t, 190.0, day.Totals.Calories)

	queue.SetOnline(false)
	status, env = do(t, app, http.MethodPost, "/diary/entries", appleEntry)
	require.Equal(t, fiber.StatusAccepted, status)
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, domain.EntryPending, entry.State)

	status, env = do(t, app, http.MethodGet, "/sync/pending", "")
	require.Equal(t, fiber.StatusOK, status)
	var pending domain.SyncStatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	assert.False(t, pending.Online)
	require.Len(t, pending.Pending, 1)
	assert.Equal(t, diary.KindCreate, pending.Pending[0].Kind)

	req := httptest.NewRequest(http.MethodGet, "/sync/pending", nil)
	req.Header.Set("X-User", "bob")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var other envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&other))
	require.NoError(t, json.Unmarshal(other.Data, &pending))
	assert.Empty(t, pending.Pending, "pending tasks are listed per user")
}

func TestAddEntryRejectsBadInput(t *testing.T) {
	app, _ := newDiaryApp(t)

	status, _ := do(t, app, http.MethodPost, "/diary/entries", `{"food":`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/diary/entries",
		`{"food":{"food_id":"us-001","source":"regional"},"meal":"lunch","quantity":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/diary/entries",
		`{"food":{"food_id":"us-001","source":"regional"},"meal":"lunch","quantity":1,"date":"01/03/2024"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDeleteEntryOwnership(t *testing.T) {
	app, _ := newDiaryApp(t)

	status, env := do(t, app, http.MethodPost, "/diary/entries", appleEntry)
	require.Equal(t, fiber.StatusCreated, status)
	var entry domain.FoodEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &entry))

	req := httptest.NewRequest(http.MethodDelete, "/diary/entries/"+entry.ID, nil)
	req.Header.Set("X-User", "mallory")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	status, _ = do(t, app, http.MethodDelete, "/diary/entries/"+entry.ID, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, http.MethodDelete, "/diary/entries/"+entry.ID, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
