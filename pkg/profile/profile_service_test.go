package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/testutil"
	"calorie-tracker/pkg/realtime"
	"calorie-tracker/pkg/syncqueue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (ProfileService, *syncqueue.Queue, *realtime.Hub) {
	t.Helper()
	db := testutil.NewDB(t, &entities.Profile{})
	queue := syncqueue.New(syncqueue.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, nil, nil)
	hub := realtime.NewHub(8)
	return NewProfileService(NewProfileRepository(db), queue, hub), queue, hub
}

func TestGet_Defaults(t *testing.T) {
	svc, _, _ := newService(t)

	p, err := svc.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.UserID)
	assert.Equal(t, domain.DefaultCalorieGoal, p.CalorieGoal)

	goal, ok, err := svc.CalorieGoal(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.DefaultCalorieGoal, goal)
}

func TestUpdate_MergesFields(t *testing.T) {
	svc, _, hub := newService(t)
	ctx := context.Background()
	sub := hub.Subscribe("alice")
	defer sub.Close()

	_, err := svc.Update(ctx, "alice", domain.UpdateProfileRequest{
		DisplayName: ptr(" Alice "),
		CalorieGoal: ptr(1800),
	})
	require.NoError(t, err)

	res, err := svc.Update(ctx, "alice", domain.UpdateProfileRequest{
		Email:       ptr("alice@example.com"),
		ProteinGoal: ptr(-5.0),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPersisted, res.State)
	assert.Equal(t, "Alice", res.DisplayName)
	assert.Equal(t, 1800, res.CalorieGoal)
	assert.Equal(t, "alice@example.com", res.Email)
	assert.Zero(t, res.ProteinGoal)

	email, err := svc.Email(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	ev := <-sub.C
	assert.Equal(t, realtime.EventProfileUpdated, ev.Type)
}

func TestUpdate_RejectsNonPositiveGoal(t *testing.T) {
	svc, queue, _ := newService(t)

	_, err := svc.Update(context.Background(), "alice", domain.UpdateProfileRequest{CalorieGoal: ptr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidCalorieGoal)
	assert.Zero(t, queue.Len())
}

func TestUpdate_OfflineIsPending(t *testing.T) {
	svc, queue, _ := newService(t)
	ctx := context.Background()
	queue.SetOnline(false)

	res, err := svc.Update(ctx, "bob", domain.UpdateProfileRequest{CalorieGoal: ptr(2200)})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPending, res.State)
	assert.Equal(t, 2200, res.CalorieGoal)
	assert.Len(t, queue.Pending("bob"), 1)

	queue.SetOnline(true)
	assert.Equal(t, 1, queue.Flush(ctx))

	goal, _, err := svc.CalorieGoal(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2200, goal)
}

type downRepo struct{}

func (downRepo) GetByUserID(context.Context, string) (*entities.Profile, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (downRepo) Save(context.Context, *entities.Profile) error {
	return errors.New("dial tcp: connection refused")
}

func TestGet_StoreUnavailable(t *testing.T) {
	svc := NewProfileService(downRepo{}, syncqueue.New(syncqueue.DefaultConfig(), nil, nil), nil)

	_, err := svc.Get(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, ok, err := svc.CalorieGoal(context.Background(), "alice")
	assert.Error(t, err)
	assert.False(t, ok)
}
