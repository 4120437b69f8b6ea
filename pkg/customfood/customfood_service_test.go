package customfood

import (
	"context"
	"testing"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) CustomFoodService {
	db := testutil.NewDB(t, &entities.CustomFood{})
	return NewCustomFoodService(NewCustomFoodRepository(db))
}

func calories(v float64) *float64 { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newService(t)

	res, err := svc.Create(context.Background(), domain.CustomFoodRequest{
		Name:     "Mom's Sambal",
		Calories: calories(40),
		Fat:      -1,
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Serving{Amount: 1, Unit: "serving"}, res.Serving)
	assert.Equal(t, 0.0, res.Macros.Fat)
	assert.Equal(t, domain.ProvenanceUserCustom, res.Record().Provenance)
}

func TestCreateRequiresNameAndCalories(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(context.Background(), domain.CustomFoodRequest{Name: " "}, "alice")
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestOwnershipIsEnforced(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.CustomFoodRequest{Name: "Protein Shake", Calories: calories(220)}, "alice")
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, res.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, res.ID, domain.CustomFoodRequest{Name: "Hijacked", Calories: calories(1)}, "bob")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, res.ID, "bob"), domain.ErrForbidden)

	got, err := svc.GetByID(ctx, res.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Protein Shake", got.Name)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.CustomFoodRequest{Name: "Granola", Calories: calories(200)}, "alice")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, res.ID, domain.CustomFoodRequest{
		Name:          "Granola Bar",
		Calories:      calories(190),
		ServingAmount: 40,
		ServingUnit:   "g",
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Granola Bar", updated.Name)
	assert.Equal(t, domain.Serving{Amount: 40, Unit: "g"}, updated.Serving)

	require.NoError(t, svc.Delete(ctx, res.ID, "alice"))
	_, err = svc.GetByID(ctx, res.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrCustomFoodNotFound)

	_, err = svc.GetByID(ctx, "garbage", "alice")
	assert.ErrorIs(t, err, domain.ErrCustomFoodNotFound)
}

func TestSearchIsScopedToOwner(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, user := range []string{"alice", "bob"} {
		_, err := svc.Create(ctx, domain.CustomFoodRequest{Name: "Overnight Oats", Calories: calories(300)}, user)
		require.NoError(t, err)
	}

	found, err := svc.Search(ctx, "alice", "OATS", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].UserID)

	list, total, err := svc.List(ctx, "bob", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	_, err = svc.Search(ctx, "alice", "oats", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}
