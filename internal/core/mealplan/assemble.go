package mealplan

import (
	"fmt"
	"sort"
)

// rankCandidates 依選擇策略排序候選食譜：平均評分高者優先，
// 無評分排最後，同分依語料順序（穩定排序）。輸入不被修改。
func rankCandidates(candidates []Recipe) []Recipe {
	ranked := make([]Recipe, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].AvgRating, ranked[j].AvgRating
		switch {
		case ri == nil && rj == nil:
			return false
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri > *rj
		}
	})
	return ranked
}

// Assemble 為每個餐段從候選集挑一份食譜組成單日計劃。
// 候選集為空的餐段標記未填滿，組裝永遠成功；
// 相同語料快照與條件必得到相同結果（無任何隨機性）。
func Assemble(bySlot map[MealSlot][]Recipe) Plan {
	plan := NewPlan()
	for _, slot := range MealSlots {
		ranked := rankCandidates(bySlot[slot])
		if len(ranked) == 0 {
			continue
		}
		selected := ranked[0]
		plan.Meals[slot] = &selected
	}
	return plan
}

// AssembleDays 組裝多日計劃。還有未用過的候選時不重複食譜；
// 候選用盡後依名次輪轉重用（取代原本的隨機挑選，保持決定性）。
// fallbackBySlot 是只按餐段過濾的備援候選集，
// allowFallback 開啟時會在主要候選集為空的餐段使用。
func AssembleDays(days int, bySlot, fallbackBySlot map[MealSlot][]Recipe, allowFallback bool) MultiDayPlan {
	rankedBySlot := make(map[MealSlot][]Recipe, len(MealSlots))
	rankedFallback := make(map[MealSlot][]Recipe, len(MealSlots))
	for _, slot := range MealSlots {
		rankedBySlot[slot] = rankCandidates(bySlot[slot])
		if allowFallback {
			rankedFallback[slot] = rankCandidates(fallbackBySlot[slot])
		}
	}

	used := make(map[int64]bool)
	plan := MultiDayPlan{Days: make([]DayPlan, 0, days)}
	for day := 1; day <= days; day++ {
		dayPlan := NewPlan()
		for _, slot := range MealSlots {
			candidates := rankedBySlot[slot]
			if len(candidates) == 0 && allowFallback {
				candidates = rankedFallback[slot]
			}
			if len(candidates) == 0 {
				continue
			}
			selected := pick(candidates, used, day)
			used[selected.ID] = true
			dayPlan.Meals[slot] = &selected
		}
		plan.Days = append(plan.Days, DayPlan{
			Day:   day,
			Label: fmt.Sprintf("Day %d", day),
			Plan:  dayPlan,
		})
	}
	return plan
}

// pick 取名次最高的未用過候選；全部用過時依天數輪轉名次
func pick(ranked []Recipe, used map[int64]bool, day int) Recipe {
	for _, candidate := range ranked {
		if !used[candidate.ID] {
			return candidate
		}
	}
	return ranked[(day-1)%len(ranked)]
}
