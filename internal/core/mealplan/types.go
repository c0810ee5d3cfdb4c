package mealplan

import (
	"encoding/json"
	"fmt"
	"strings"

	"meal-planner/internal/pkg/common"
)

// MealSlot 餐段類別
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotAppetizer MealSlot = "appetizer"
	SlotDessert   MealSlot = "dessert"
	SlotDrink     MealSlot = "drink"
)

// MealSlots 固定的餐段順序，組裝與匯出都依此排列
var MealSlots = []MealSlot{
	SlotBreakfast,
	SlotLunch,
	SlotDinner,
	SlotAppetizer,
	SlotDessert,
	SlotDrink,
}

// ParseMealSlot 解析餐段名稱
func ParseMealSlot(s string) (MealSlot, error) {
	slot := MealSlot(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MealSlots {
		if slot == known {
			return slot, nil
		}
	}
	return "", fmt.Errorf("unknown meal slot %q", s)
}

// DietaryTag 飲食限制標籤（封閉枚舉，邊界驗證用）
type DietaryTag string

const (
	TagVegan      DietaryTag = "vegan"
	TagVegetarian DietaryTag = "vegetarian"
	TagGlutenFree DietaryTag = "gluten-free"
	TagDairyFree  DietaryTag = "dairy-free"
	TagNutFree    DietaryTag = "nut-free"
)

var dietaryTags = map[DietaryTag]bool{
	TagVegan:      true,
	TagVegetarian: true,
	TagGlutenFree: true,
	TagDairyFree:  true,
	TagNutFree:    true,
}

// CulturalTag 料理文化標籤（封閉枚舉）
type CulturalTag string

const (
	CultureAsian         CulturalTag = "Asian"
	CultureAfrican       CulturalTag = "African"
	CultureHispanic      CulturalTag = "Hispanic"
	CultureCaucasian     CulturalTag = "Caucasian"
	CultureMiddleEastern CulturalTag = "Middle Eastern"
)

var culturalTags = map[CulturalTag]bool{
	CultureAsian:         true,
	CultureAfrican:       true,
	CultureHispanic:      true,
	CultureCaucasian:     true,
	CultureMiddleEastern: true,
}

// Cultures 固定順序的文化標籤列表，範例計劃清單依此排列
var Cultures = []CulturalTag{
	CultureAsian,
	CultureAfrican,
	CultureHispanic,
	CultureCaucasian,
	CultureMiddleEastern,
}

// Ingredient 食材參考資料（不可變）
type Ingredient struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"` // produce、dairy、protein、pantry 等
}

// Substitution 代換關係的有向邊，解析時視為對稱
type Substitution struct {
	IngredientID int64 `json:"ingredient_id"`
	SubstituteID int64 `json:"substitute_ingredient_id"`
}

// RequiredIngredient 食譜的需求食材，數量與單位照原樣宣告
type RequiredIngredient struct {
	IngredientID int64   `json:"ingredient_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

// Nutrition 單份食譜的營養數值
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recipe 食譜。規劃期間視為不可變；AvgRating 是唯一由
// 使用者互動產生的欄位，由儲存層在讀取時重新計算。
type Recipe struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	Slot         MealSlot             `json:"meal_type"`
	Instructions string               `json:"instructions,omitempty"`
	Ingredients  []RequiredIngredient `json:"ingredients"`
	DietaryTags  []DietaryTag         `json:"dietary_tags"`
	CulturalTags []CulturalTag        `json:"cultural_tags"`
	Nutrition    Nutrition            `json:"nutrition"`
	AvgRating    *float64             `json:"avg_rating"`
}

// HasDietaryTag 檢查食譜是否帶有指定飲食標籤
func (r *Recipe) HasDietaryTag(tag DietaryTag) bool {
	for _, t := range r.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasCulturalTag 檢查食譜是否帶有指定文化標籤
func (r *Recipe) HasCulturalTag(tag CulturalTag) bool {
	for _, t := range r.CulturalTags {
		if t == tag {
			return true
		}
	}
	return false
}

// FilterContext 單次規劃請求的過濾條件。三個軸各自獨立，
// 空集合代表該軸不過濾。
type FilterContext struct {
	OnHand   []int64       // 手邊食材 ID，空 = 不按食材過濾
	Dietary  []DietaryTag  // 飲食限制，全部都要滿足（AND）
	Cultural []CulturalTag // 文化偏好，命中任一即可（OR）
}

// Validate 在過濾前於邊界驗證標籤枚舉，未知值立即拒絕
func (c FilterContext) Validate() error {
	for _, tag := range c.Dietary {
		if !dietaryTags[tag] {
			return common.NewError(common.ErrCodeInvalidFilterContext,
				fmt.Sprintf("未知的飲食標籤 %q", tag), 400, nil)
		}
	}
	for _, tag := range c.Cultural {
		if !culturalTags[tag] {
			return common.NewError(common.ErrCodeInvalidFilterContext,
				fmt.Sprintf("未知的文化標籤 %q", tag), 400, nil)
		}
	}
	return nil
}

// ParseDietaryTags 解析並驗證飲食標籤
func ParseDietaryTags(values []string) ([]DietaryTag, error) {
	tags := make([]DietaryTag, 0, len(values))
	for _, v := range values {
		tag := DietaryTag(strings.ToLower(strings.TrimSpace(v)))
		if !dietaryTags[tag] {
			return nil, common.NewError(common.ErrCodeInvalidFilterContext,
				fmt.Sprintf("未知的飲食標籤 %q", v), 400, nil)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ParseCulturalTags 解析並驗證文化標籤（不分大小寫）
func ParseCulturalTags(values []string) ([]CulturalTag, error) {
	tags := make([]CulturalTag, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		var matched CulturalTag
		for known := range culturalTags {
			if strings.EqualFold(trimmed, string(known)) {
				matched = known
				break
			}
		}
		if matched == "" {
			return nil, common.NewError(common.ErrCodeInvalidFilterContext,
				fmt.Sprintf("未知的文化標籤 %q", v), 400, nil)
		}
		tags = append(tags, matched)
	}
	return tags, nil
}

// Plan 單日計劃：每個餐段對應一份食譜，nil 表示該餐段未填滿。
// 六個餐段鍵永遠都在，匯出形狀因此穩定。
type Plan struct {
	Meals map[MealSlot]*Recipe `json:"meals"`
}

// MarshalJSON 直接以餐段名稱作鍵序列化，不多包一層
func (p Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Meals)
}

// UnmarshalJSON 對應 MarshalJSON 的攤平形狀
func (p *Plan) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Meals)
}

// NewPlan 建立六個餐段皆未填滿的空計劃
func NewPlan() Plan {
	meals := make(map[MealSlot]*Recipe, len(MealSlots))
	for _, slot := range MealSlots {
		meals[slot] = nil
	}
	return Plan{Meals: meals}
}

// Unfilled 回傳未填滿的餐段，依固定餐段順序
func (p Plan) Unfilled() []MealSlot {
	var slots []MealSlot
	for _, slot := range MealSlots {
		if p.Meals[slot] == nil {
			slots = append(slots, slot)
		}
	}
	return slots
}

// Recipes 回傳已填滿餐段的食譜，依固定餐段順序
func (p Plan) Recipes() []*Recipe {
	var recipes []*Recipe
	for _, slot := range MealSlots {
		if r := p.Meals[slot]; r != nil {
			recipes = append(recipes, r)
		}
	}
	return recipes
}

// DayPlan 多日計劃中的一天
type DayPlan struct {
	Day   int    `json:"day"`
	Label string `json:"label"` // "Day 1" 等，匯出顯示用
	Plan  Plan   `json:"meals"`
}

// MultiDayPlan 多日膳食計劃
type MultiDayPlan struct {
	Days []DayPlan `json:"days"`
}

// Plans 回傳所有單日計劃
func (m MultiDayPlan) Plans() []Plan {
	plans := make([]Plan, 0, len(m.Days))
	for _, d := range m.Days {
		plans = append(plans, d.Plan)
	}
	return plans
}

// ShoppingItem 購物清單項目。同食材同單位的需求會累加；
// 同食材不同單位不做換算，改以 UnitConflict 標記分列。
type ShoppingItem struct {
	IngredientID int64   `json:"ingredient_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitConflict bool    `json:"unit_conflict,omitempty"`
}

// RecipeShortage 單一食譜缺少的食材
type RecipeShortage struct {
	RecipeID   int64          `json:"recipe_id"`
	RecipeName string         `json:"recipe_name"`
	Missing    []ShoppingItem `json:"missing"`
}

// ShoppingList 依食材分類分組的缺料清單
type ShoppingList struct {
	Categories map[string][]ShoppingItem `json:"categories"`
	PerRecipe  []RecipeShortage          `json:"per_recipe,omitempty"`
}

// NutritionTotals 計劃的營養總和（攤平的數值紀錄）
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
