package regional

import (
	"testing"

	"calorie-tracker/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	assert.Equal(t, []string{"id", "us"}, Regions())
}

func TestFoodsAreTaggedAndCopied(t *testing.T) {
	foods := Foods("US")
	require.NotEmpty(t, foods)
	for _, f := range foods {
		assert.Equal(t, domain.ProvenanceRegional, f.Provenance)
		assert.Equal(t, "us", f.Region)
	}

	foods[0].Name = "changed"
	assert.NotEqual(t, "changed", Foods("us")[0].Name)

	assert.Nil(t, Foods("xx"))
	assert.Len(t, Foods(""), len(Foods("id"))+len(Foods("us")))
}

func TestGet(t *testing.T) {
	f, err := Get("id-002")
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng", f.Name)
	assert.Equal(t, "id", f.Region)

	_, err = Get("missing")
	assert.ErrorIs(t, err, domain.ErrFoodNotFound)
}

func TestSearch(t *testing.T) {
	names := func(foods []domain.FoodRecord) []string {
		var out []string
		for _, f := range foods {
			out = append(out, f.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Apple", "Apple Pie", "Pineapple"}, names(Search("apple", "us")))
	assert.ElementsMatch(t, []string{"Nasi Putih", "Nasi Goreng", "Nasi Uduk"}, names(Search("NASI", "id")))
	assert.Empty(t, Search("  ", ""))
}

func TestCategories(t *testing.T) {
	cats := Categories("us")
	assert.Contains(t, cats, "Fruits")
	assert.IsIncreasing(t, cats)

	fruits := ByCategory("us", "fruits")
	assert.Len(t, fruits, 3)
}

func TestMacrosAreNonNegative(t *testing.T) {
	for _, f := range Foods("") {
		m := f.Macros
		for _, v := range []float64{m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber} {
			assert.GreaterOrEqual(t, v, 0.0, f.ID)
		}
	}
}
