package store

import (
	"context"
	"path/filepath"
	"testing"

	"meal-planner/internal/core/mealplan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAndPing(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, int64(1), s.Version())
}

func TestSeedPopulatesSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, len(seedRecipes))

	ingredients, err := s.ListIngredients(ctx)
	require.NoError(t, err)
	assert.Len(t, ingredients, len(seedIngredients))

	subs, err := s.ListSubstitutions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, len(seedSubstitutions))

	// 語料順序 = 主鍵順序
	for i := 1; i < len(recipes); i++ {
		assert.Greater(t, recipes[i].ID, recipes[i-1].ID)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, len(seedRecipes))
}

func TestListRecipesAttachesRelations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)

	var teriyaki *mealplan.Recipe
	for i := range recipes {
		if recipes[i].Name == "Chicken Teriyaki Bowl" {
			teriyaki = &recipes[i]
			break
		}
	}
	require.NotNil(t, teriyaki)

	assert.Equal(t, mealplan.SlotLunch, teriyaki.Slot)
	assert.Len(t, teriyaki.Ingredients, 5)
	assert.Contains(t, teriyaki.CulturalTags, mealplan.CultureAsian)
	require.NotNil(t, teriyaki.AvgRating, "seeded rating shows up as average")
	assert.Equal(t, 4.0, *teriyaki.AvgRating)
	assert.InDelta(t, 450, teriyaki.Nutrition.Calories, 0.01)
}

func TestGetRecipe(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	first := recipes[0]

	got, err := s.GetRecipe(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, got.Name)

	_, err = s.GetRecipe(ctx, 99999)
	assert.Error(t, err)
}

func TestRecordRatingBumpsVersionAndAverage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	target := recipes[0] // Chicken Teriyaki Bowl，種子評分 4

	before := s.Version()
	require.NoError(t, s.RecordRating(ctx, target.ID, 2))
	assert.Greater(t, s.Version(), before, "rating append invalidates plan cache")

	got, err := s.GetRecipe(ctx, target.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AvgRating)
	assert.Equal(t, 3.0, *got.AvgRating, "average recomputed over append-only log")
}

func TestRecordRatingValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	assert.Error(t, s.RecordRating(ctx, 1, 0))
	assert.Error(t, s.RecordRating(ctx, 1, 6))
	assert.Error(t, s.RecordRating(ctx, 99999, 3), "unknown recipe rejected")

	before := s.Version()
	_ = s.RecordRating(ctx, 1, 6)
	assert.Equal(t, before, s.Version(), "rejected writes do not bump the version")
}
