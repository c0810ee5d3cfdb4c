package mealplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// 計劃天數限制，與原始匯出格式一致
const (
	MinPlanDays = 1
	MaxPlanDays = 30
)

// Store 食譜儲存協作者。核心只讀取快照，
// 不執行任何 schema 或持久化操作。
type Store interface {
	ListRecipes(ctx context.Context) ([]Recipe, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	ListSubstitutions(ctx context.Context) ([]Substitution, error)
	Version() int64
}

// PlanRequest 一次規劃請求的輸入
type PlanRequest struct {
	Days          int
	Ingredients   []string // 手邊食材名稱，空 = 不按食材過濾
	DietaryPrefs  []string
	CulturalPrefs []string
	AllowFallback bool
	SamplePlan    bool
	Culture       string
}

// Planner 膳食計劃服務：載入快照、過濾、組裝、
// 計算購物清單與營養總和
type Planner struct {
	store Store
	cache *PlanCache
}

// NewPlanner 創建膳食計劃服務
func NewPlanner(store Store, cache *PlanCache) *Planner {
	return &Planner{
		store: store,
		cache: cache,
	}
}

// GeneratePlan 產生完整的膳食計劃文件。候選集為空的餐段
// 標記未填滿而不是失敗；部分計劃仍是有效結果。
func (p *Planner) GeneratePlan(ctx context.Context, req PlanRequest) (*ExportDocument, error) {
	if req.Days < MinPlanDays || req.Days > MaxPlanDays {
		return nil, common.NewError(common.ErrCodeInvalidRequest,
			fmt.Sprintf("計劃天數必須介於 %d 到 %d 之間", MinPlanDays, MaxPlanDays), 400, nil)
	}

	// 邊界驗證：標籤不在枚舉內的請求直接拒絕，不進入過濾
	dietary, err := ParseDietaryTags(req.DietaryPrefs)
	if err != nil {
		return nil, err
	}
	cultural, err := ParseCulturalTags(req.CulturalPrefs)
	if err != nil {
		return nil, err
	}

	version := p.store.Version()
	key := Fingerprint(version,
		fmt.Sprintf("days=%d", req.Days),
		"onhand="+strings.ToLower(strings.Join(req.Ingredients, ",")),
		"dietary="+joinDietary(dietary),
		"cultural="+joinCultural(cultural),
		fmt.Sprintf("fallback=%t", req.AllowFallback),
	)
	if cached, ok := p.cache.Get(key); ok {
		doc := *cached
		return &doc, nil
	}

	recipes, err := p.store.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	ingredients, err := p.store.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	substitutions, err := p.store.ListSubstitutions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list substitutions: %w", err)
	}
	resolver := NewResolver(substitutions)

	// 手邊食材名稱對應到 ID；對不上的名稱不滿足任何需求，
	// 以警告回報而不是中斷
	var warnings []string
	onHand, unmatched := matchIngredients(req.Ingredients, ingredients)
	for _, name := range unmatched {
		warnings = append(warnings, fmt.Sprintf("unknown on-hand ingredient %q ignored", name))
	}

	fctx := FilterContext{OnHand: onHand, Dietary: dietary, Cultural: cultural}
	bySlot := FilterBySlot(recipes, fctx, resolver)
	fallbackBySlot := groupBySlot(recipes)

	plan := AssembleDays(req.Days, bySlot, fallbackBySlot, req.AllowFallback)
	shoppingList := BuildShoppingListDays(plan, onHand, resolver)
	nutrition, nutritionWarnings := AggregateDays(plan)
	warnings = append(warnings, nutritionWarnings...)

	doc := &ExportDocument{
		MealPlan:     plan,
		ShoppingList: shoppingList,
		Nutrition:    nutrition,
		Warnings:     warnings,
		Metadata: PlanMetadata{
			Days:          req.Days,
			Ingredients:   normalizeNames(req.Ingredients),
			DietaryPrefs:  dietaryStrings(dietary),
			CulturalPrefs: culturalStrings(cultural),
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			SamplePlan:    req.SamplePlan,
			Culture:       req.Culture,
		},
	}

	unfilled := 0
	for _, day := range plan.Days {
		unfilled += len(day.Plan.Unfilled())
	}
	common.LogInfo("膳食計劃已產生",
		zap.Int("days", req.Days),
		zap.Int("corpus_size", len(recipes)),
		zap.Int("unfilled_slots", unfilled),
		zap.Int("warnings", len(warnings)),
	)

	p.cache.Set(key, doc)
	result := *doc
	return &result, nil
}

// matchIngredients 用名稱對應食材參考資料（不分大小寫）
func matchIngredients(names []string, ingredients []Ingredient) ([]int64, []string) {
	index := make(map[string]int64, len(ingredients))
	for _, ing := range ingredients {
		index[strings.ToLower(ing.Name)] = ing.ID
	}

	var ids []int64
	var unmatched []string
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if id, ok := index[name]; ok {
			ids = append(ids, id)
		} else {
			unmatched = append(unmatched, strings.TrimSpace(raw))
		}
	}
	return ids, unmatched
}

func normalizeNames(names []string) []string {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

func dietaryStrings(tags []DietaryTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}

func culturalStrings(tags []CulturalTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}

func joinDietary(tags []DietaryTag) string {
	return strings.Join(dietaryStrings(tags), ",")
}

func joinCultural(tags []CulturalTag) string {
	return strings.Join(culturalStrings(tags), ",")
}
