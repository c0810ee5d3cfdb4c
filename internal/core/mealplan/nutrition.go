package mealplan

import (
	"fmt"
	"math"
)

// Aggregate 加總單日計劃所有已填滿餐段的營養數值。
// 無效欄位（負數或 NaN）以零計，並回傳警告讓呼叫端可見，
// 不做無聲的強制轉換。
func Aggregate(plan Plan) (NutritionTotals, []string) {
	return aggregate([]Plan{plan})
}

// AggregateDays 加總多日計劃的營養數值
func AggregateDays(plan MultiDayPlan) (NutritionTotals, []string) {
	return aggregate(plan.Plans())
}

func aggregate(plans []Plan) (NutritionTotals, []string) {
	var totals NutritionTotals
	var warnings []string

	add := func(recipe *Recipe, field string, value float64, into *float64) {
		if math.IsNaN(value) || value < 0 {
			warnings = append(warnings,
				fmt.Sprintf("recipe %d (%s): invalid %s %v treated as 0", recipe.ID, recipe.Name, field, value))
			return
		}
		*into += value
	}

	for _, plan := range plans {
		for _, recipe := range plan.Recipes() {
			add(recipe, "calories", recipe.Nutrition.Calories, &totals.Calories)
			add(recipe, "protein", recipe.Nutrition.Protein, &totals.Protein)
			add(recipe, "carbs", recipe.Nutrition.Carbs, &totals.Carbs)
			add(recipe, "fat", recipe.Nutrition.Fat, &totals.Fat)
		}
	}
	return totals, warnings
}
