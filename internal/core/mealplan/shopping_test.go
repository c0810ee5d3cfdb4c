package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWith(recipes ...*Recipe) Plan {
	plan := NewPlan()
	for _, r := range recipes {
		plan.Meals[r.Slot] = r
	}
	return plan
}

func TestShoppingListOnHandExcluded(t *testing.T) {
	dinner := &Recipe{
		ID: 1, Name: "Stir Fry", Slot: SlotDinner,
		Ingredients: []RequiredIngredient{
			{IngredientID: 1, Name: "chicken", Category: "protein", Quantity: 200, Unit: "g"},
			{IngredientID: 2, Name: "rice", Category: "grain", Quantity: 1, Unit: "cup"},
		},
	}

	list := BuildShoppingList(planWith(dinner), []int64{1}, NewResolver(nil))

	require.Len(t, list.Categories, 1)
	items := list.Categories["grain"]
	require.Len(t, items, 1)
	assert.Equal(t, "rice", items[0].Name)
	assert.Equal(t, 1.0, items[0].Quantity)
}

func TestShoppingListSubstitutionSatisfies(t *testing.T) {
	// 手邊有燕麥奶，需求是牛奶：代換閉包滿足，不列缺料
	resolver := NewResolver([]Substitution{{IngredientID: 10, SubstituteID: 11}})
	dessert := &Recipe{
		ID: 1, Name: "Pudding", Slot: SlotDessert,
		Ingredients: []RequiredIngredient{
			{IngredientID: 10, Name: "milk", Category: "dairy", Quantity: 250, Unit: "ml"},
		},
	}

	list := BuildShoppingList(planWith(dessert), []int64{11}, resolver)
	assert.Empty(t, list.Categories)
	assert.Empty(t, list.PerRecipe)
}

func TestShoppingListAggregatesSameUnit(t *testing.T) {
	lunch := &Recipe{
		ID: 1, Name: "Fried Rice", Slot: SlotLunch,
		Ingredients: []RequiredIngredient{
			{IngredientID: 2, Name: "rice", Category: "grain", Quantity: 1, Unit: "cup"},
		},
	}
	dinner := &Recipe{
		ID: 2, Name: "Pilaf", Slot: SlotDinner,
		Ingredients: []RequiredIngredient{
			{IngredientID: 2, Name: "rice", Category: "grain", Quantity: 2, Unit: "cup"},
		},
	}

	list := BuildShoppingList(planWith(lunch, dinner), nil, NewResolver(nil))

	items := list.Categories["grain"]
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].Quantity)
	assert.Equal(t, "cup", items[0].Unit)
	assert.False(t, items[0].UnitConflict)
}

func TestShoppingListUnitMismatchIsConflict(t *testing.T) {
	lunch := &Recipe{
		ID: 1, Name: "Horchata", Slot: SlotLunch,
		Ingredients: []RequiredIngredient{
			{IngredientID: 10, Name: "milk", Category: "dairy", Quantity: 250, Unit: "ml"},
		},
	}
	dessert := &Recipe{
		ID: 2, Name: "Custard", Slot: SlotDessert,
		Ingredients: []RequiredIngredient{
			{IngredientID: 10, Name: "milk", Category: "dairy", Quantity: 1, Unit: "cup"},
		},
	}

	list := BuildShoppingList(planWith(lunch, dessert), nil, NewResolver(nil))

	// 不換算單位：各單位分列且都標記衝突
	items := list.Categories["dairy"]
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.UnitConflict, "items under mismatched units must be flagged")
	}
	assert.Equal(t, "cup", items[0].Unit)
	assert.Equal(t, "ml", items[1].Unit)
}

func TestShoppingListPerRecipeShortages(t *testing.T) {
	dinner := &Recipe{
		ID: 5, Name: "Enchiladas", Slot: SlotDinner,
		Ingredients: []RequiredIngredient{
			{IngredientID: 1, Name: "chicken", Category: "protein", Quantity: 300, Unit: "g"},
			{IngredientID: 7, Name: "tortillas", Category: "grain", Quantity: 4, Unit: "piece"},
		},
	}

	list := BuildShoppingList(planWith(dinner), []int64{1}, NewResolver(nil))

	require.Len(t, list.PerRecipe, 1)
	shortage := list.PerRecipe[0]
	assert.Equal(t, int64(5), shortage.RecipeID)
	assert.Equal(t, "Enchiladas", shortage.RecipeName)
	require.Len(t, shortage.Missing, 1)
	assert.Equal(t, "tortillas", shortage.Missing[0].Name)
}

func TestShoppingListDaysAccumulatesRepeats(t *testing.T) {
	dinner := Recipe{
		ID: 1, Name: "Pilaf", Slot: SlotDinner,
		Ingredients: []RequiredIngredient{
			{IngredientID: 2, Name: "rice", Category: "grain", Quantity: 2, Unit: "cup"},
		},
	}

	multi := MultiDayPlan{Days: []DayPlan{
		{Day: 1, Label: "Day 1", Plan: planWith(&dinner)},
		{Day: 2, Label: "Day 2", Plan: planWith(&dinner)},
	}}

	list := BuildShoppingListDays(multi, nil, NewResolver(nil))

	items := list.Categories["grain"]
	require.Len(t, items, 1)
	assert.Equal(t, 4.0, items[0].Quantity, "repeated recipe accumulates quantity")

	// 缺料明細同一食譜只列一次
	require.Len(t, list.PerRecipe, 1)
}

func TestShoppingListEmptyPlan(t *testing.T) {
	list := BuildShoppingList(NewPlan(), nil, NewResolver(nil))
	assert.Empty(t, list.Categories)
	assert.Empty(t, list.PerRecipe)
}
