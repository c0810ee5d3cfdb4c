package mealplan

// Resolver 食材代換解析器。代換表以有向邊儲存，
// 解析時視為對稱：A 可代換 B，則 B 也滿足對 A 的需求。
type Resolver struct {
	adjacency map[int64][]int64
}

// NewResolver 從代換邊列表建立解析器
func NewResolver(subs []Substitution) *Resolver {
	adjacency := make(map[int64][]int64, len(subs)*2)
	for _, s := range subs {
		adjacency[s.IngredientID] = append(adjacency[s.IngredientID], s.SubstituteID)
		adjacency[s.SubstituteID] = append(adjacency[s.SubstituteID], s.IngredientID)
	}
	return &Resolver{adjacency: adjacency}
}

// Resolve 回傳可滿足指定食材需求的等價閉包，含食材本身。
// 以明確的工作堆疊加已訪問集合計算，代換表含環也保證終止。
func (r *Resolver) Resolve(id int64) map[int64]bool {
	closure := map[int64]bool{id: true}
	stack := []int64{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range r.adjacency[current] {
			if !closure[next] {
				closure[next] = true
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// Satisfies 檢查手邊食材是否能滿足需求食材
func (r *Resolver) Satisfies(have, need int64) bool {
	return r.Resolve(need)[have]
}

// SatisfiedByAny 檢查手邊任一食材是否能滿足需求食材
func (r *Resolver) SatisfiedByAny(onHand map[int64]bool, need int64) bool {
	if onHand[need] {
		return true
	}
	for candidate := range r.Resolve(need) {
		if onHand[candidate] {
			return true
		}
	}
	return false
}
