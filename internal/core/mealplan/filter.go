package mealplan

// Filter 依過濾條件篩選食譜集合，保留輸入順序。
// 三個條款同時生效：
//   - 食材條款：手邊食材為空則通過，否則食譜的每項需求食材
//     都必須能由某個手邊食材（經代換閉包）滿足
//   - 飲食條款：要求的限制必須全部成立（AND，超集判定）
//   - 文化條款：命中任一偏好即可（OR，交集判定）
//
// 飲食 AND / 文化 OR 的不對稱是刻意的：飲食限制是硬約束，
// 文化偏好是「這些菜系任一皆可」的軟過濾。
func Filter(corpus []Recipe, ctx FilterContext, resolver *Resolver) []Recipe {
	onHand := make(map[int64]bool, len(ctx.OnHand))
	for _, id := range ctx.OnHand {
		onHand[id] = true
	}

	var result []Recipe
	for _, recipe := range corpus {
		if !ingredientClause(&recipe, onHand, resolver) {
			continue
		}
		if !dietaryClause(&recipe, ctx.Dietary) {
			continue
		}
		if !culturalClause(&recipe, ctx.Cultural) {
			continue
		}
		result = append(result, recipe)
	}
	return result
}

// FilterBySlot 篩選後依餐段分組，組內保留語料順序
func FilterBySlot(corpus []Recipe, ctx FilterContext, resolver *Resolver) map[MealSlot][]Recipe {
	return groupBySlot(Filter(corpus, ctx, resolver))
}

func groupBySlot(recipes []Recipe) map[MealSlot][]Recipe {
	grouped := make(map[MealSlot][]Recipe, len(MealSlots))
	for _, r := range recipes {
		grouped[r.Slot] = append(grouped[r.Slot], r)
	}
	return grouped
}

func ingredientClause(r *Recipe, onHand map[int64]bool, resolver *Resolver) bool {
	if len(onHand) == 0 {
		return true
	}
	for _, required := range r.Ingredients {
		if !resolver.SatisfiedByAny(onHand, required.IngredientID) {
			return false
		}
	}
	return true
}

func dietaryClause(r *Recipe, requested []DietaryTag) bool {
	for _, tag := range requested {
		if !r.HasDietaryTag(tag) {
			return false
		}
	}
	return true
}

func culturalClause(r *Recipe, requested []CulturalTag) bool {
	if len(requested) == 0 {
		return true
	}
	for _, tag := range requested {
		if r.HasCulturalTag(tag) {
			return true
		}
	}
	return false
}
