package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblePicksHighestRated(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{
		SlotDinner: {
			{ID: 1, Name: "Low", Slot: SlotDinner, AvgRating: rating(3.0)},
			{ID: 2, Name: "High", Slot: SlotDinner, AvgRating: rating(4.8)},
			{ID: 3, Name: "Unrated", Slot: SlotDinner},
		},
	}

	plan := Assemble(bySlot)
	require.NotNil(t, plan.Meals[SlotDinner])
	assert.Equal(t, int64(2), plan.Meals[SlotDinner].ID)
}

func TestAssembleTieBreaksByCorpusOrder(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{
		SlotLunch: {
			{ID: 7, Name: "First", Slot: SlotLunch, AvgRating: rating(4.0)},
			{ID: 8, Name: "Second", Slot: SlotLunch, AvgRating: rating(4.0)},
		},
	}

	plan := Assemble(bySlot)
	assert.Equal(t, int64(7), plan.Meals[SlotLunch].ID, "earlier corpus position wins ties")
}

func TestAssembleUnratedSortsLast(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{
		SlotDrink: {
			{ID: 1, Name: "Unrated", Slot: SlotDrink},
			{ID: 2, Name: "Rated", Slot: SlotDrink, AvgRating: rating(1.0)},
		},
	}

	plan := Assemble(bySlot)
	assert.Equal(t, int64(2), plan.Meals[SlotDrink].ID, "any rating beats no rating")
}

func TestAssembleEmptySlotsStayUnfilled(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{
		SlotBreakfast: {{ID: 1, Name: "Congee", Slot: SlotBreakfast}},
	}

	plan := Assemble(bySlot)
	require.NotNil(t, plan.Meals[SlotBreakfast])
	assert.Equal(t, []MealSlot{SlotLunch, SlotDinner, SlotAppetizer, SlotDessert, SlotDrink}, plan.Unfilled())

	// 全部餐段都有鍵，未填滿者為 nil
	assert.Len(t, plan.Meals, len(MealSlots))
}

func TestAssembleIsDeterministic(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{
		SlotDinner: {
			{ID: 1, Slot: SlotDinner, AvgRating: rating(4.0)},
			{ID: 2, Slot: SlotDinner, AvgRating: rating(4.5)},
			{ID: 3, Slot: SlotDinner},
		},
		SlotLunch: {
			{ID: 4, Slot: SlotLunch, AvgRating: rating(3.0)},
			{ID: 5, Slot: SlotLunch, AvgRating: rating(3.0)},
		},
	}

	first := Assemble(bySlot)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Assemble(bySlot))
	}
}

func TestAssembleDaysAvoidsReuseWhileCandidatesRemain(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{
		SlotDinner: {
			{ID: 1, Slot: SlotDinner, AvgRating: rating(4.5)},
			{ID: 2, Slot: SlotDinner, AvgRating: rating(4.0)},
			{ID: 3, Slot: SlotDinner, AvgRating: rating(3.5)},
		},
	}

	plan := AssembleDays(3, bySlot, nil, false)
	require.Len(t, plan.Days, 3)

	seen := make(map[int64]bool)
	for _, day := range plan.Days {
		r := day.Plan.Meals[SlotDinner]
		require.NotNil(t, r)
		assert.False(t, seen[r.ID], "recipe reused while unused candidates remain")
		seen[r.ID] = true
	}
}

func TestAssembleDaysRotatesAfterExhaustion(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{
		SlotDinner: {
			{ID: 1, Slot: SlotDinner, AvgRating: rating(4.5)},
			{ID: 2, Slot: SlotDinner, AvgRating: rating(4.0)},
		},
	}

	plan := AssembleDays(4, bySlot, nil, false)
	require.Len(t, plan.Days, 4)

	// 前兩天用掉全部候選，後兩天輪轉重用而非失敗
	assert.Equal(t, int64(1), plan.Days[0].Plan.Meals[SlotDinner].ID)
	assert.Equal(t, int64(2), plan.Days[1].Plan.Meals[SlotDinner].ID)
	assert.NotNil(t, plan.Days[2].Plan.Meals[SlotDinner])
	assert.NotNil(t, plan.Days[3].Plan.Meals[SlotDinner])

	again := AssembleDays(4, bySlot, nil, false)
	assert.Equal(t, plan, again, "rotation must be deterministic")
}

func TestAssembleDaysFallback(t *testing.T) {
	bySlot := map[MealSlot][]Recipe{} // 主要候選集全空
	fallback := map[MealSlot][]Recipe{
		SlotBreakfast: {{ID: 9, Slot: SlotBreakfast}},
	}

	strict := AssembleDays(1, bySlot, fallback, false)
	assert.Nil(t, strict.Days[0].Plan.Meals[SlotBreakfast], "no fallback unless allowed")

	relaxed := AssembleDays(1, bySlot, fallback, true)
	require.NotNil(t, relaxed.Days[0].Plan.Meals[SlotBreakfast])
	assert.Equal(t, int64(9), relaxed.Days[0].Plan.Meals[SlotBreakfast].ID)
}

func TestAssembleDaysLabels(t *testing.T) {
	plan := AssembleDays(2, nil, nil, false)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, 1, plan.Days[0].Day)
	assert.Equal(t, "Day 1", plan.Days[0].Label)
	assert.Equal(t, "Day 2", plan.Days[1].Label)
}

func TestRankCandidatesDoesNotMutateInput(t *testing.T) {
	candidates := []Recipe{
		{ID: 1, AvgRating: rating(1.0)},
		{ID: 2, AvgRating: rating(5.0)},
	}
	rankCandidates(candidates)
	assert.Equal(t, int64(1), candidates[0].ID)
	assert.Equal(t, int64(2), candidates[1].ID)
}
