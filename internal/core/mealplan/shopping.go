package mealplan

import "sort"

// shoppingKey 缺料累加鍵：同食材同單位才相加
type shoppingKey struct {
	ingredientID int64
	unit         string
}

// BuildShoppingList 計算單日計劃相對於手邊食材的缺料清單。
// 手邊食材（含其代換閉包）能滿足的需求不會出現在清單上。
func BuildShoppingList(plan Plan, onHand []int64, resolver *Resolver) ShoppingList {
	return buildShoppingList([]Plan{plan}, onHand, resolver)
}

// BuildShoppingListDays 計算多日計劃的缺料清單，
// 同一食譜重複出現時其需求量按出現次數累加。
func BuildShoppingListDays(plan MultiDayPlan, onHand []int64, resolver *Resolver) ShoppingList {
	return buildShoppingList(plan.Plans(), onHand, resolver)
}

func buildShoppingList(plans []Plan, onHand []int64, resolver *Resolver) ShoppingList {
	onHandSet := make(map[int64]bool, len(onHand))
	for _, id := range onHand {
		onHandSet[id] = true
	}

	totals := make(map[shoppingKey]*ShoppingItem)
	unitsPerIngredient := make(map[int64]map[string]bool)
	shortageIndex := make(map[int64]int)
	var perRecipe []RecipeShortage

	for _, plan := range plans {
		for _, recipe := range plan.Recipes() {
			var missing []ShoppingItem
			for _, required := range recipe.Ingredients {
				if resolver.SatisfiedByAny(onHandSet, required.IngredientID) {
					continue
				}
				missing = append(missing, ShoppingItem{
					IngredientID: required.IngredientID,
					Name:         required.Name,
					Category:     required.Category,
					Quantity:     required.Quantity,
					Unit:         required.Unit,
				})

				key := shoppingKey{required.IngredientID, required.Unit}
				if item, ok := totals[key]; ok {
					item.Quantity += required.Quantity
				} else {
					totals[key] = &ShoppingItem{
						IngredientID: required.IngredientID,
						Name:         required.Name,
						Category:     required.Category,
						Quantity:     required.Quantity,
						Unit:         required.Unit,
					}
				}
				if unitsPerIngredient[required.IngredientID] == nil {
					unitsPerIngredient[required.IngredientID] = make(map[string]bool)
				}
				unitsPerIngredient[required.IngredientID][required.Unit] = true
			}

			if len(missing) == 0 {
				continue
			}
			// 同一食譜跨日重複出現時只列一次缺料明細
			if _, seen := shortageIndex[recipe.ID]; seen {
				continue
			}
			shortageIndex[recipe.ID] = len(perRecipe)
			perRecipe = append(perRecipe, RecipeShortage{
				RecipeID:   recipe.ID,
				RecipeName: recipe.Name,
				Missing:    missing,
			})
		}
	}

	// 同食材出現多種單位時不做換算，各單位分列並標記衝突
	categories := make(map[string][]ShoppingItem)
	for key, item := range totals {
		if len(unitsPerIngredient[key.ingredientID]) > 1 {
			item.UnitConflict = true
		}
		categories[item.Category] = append(categories[item.Category], *item)
	}

	// 分類內依名稱、單位排序，輸出保持決定性
	for category := range categories {
		items := categories[category]
		sort.Slice(items, func(i, j int) bool {
			if items[i].Name != items[j].Name {
				return items[i].Name < items[j].Name
			}
			return items[i].Unit < items[j].Unit
		})
		categories[category] = items
	}

	return ShoppingList{Categories: categories, PerRecipe: perRecipe}
}
