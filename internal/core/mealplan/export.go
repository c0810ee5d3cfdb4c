package mealplan

import (
	"fmt"

	"meal-planner/internal/pkg/common"
)

// PlanMetadata 匯出文件的產生條件紀錄
type PlanMetadata struct {
	PlanID        string   `json:"plan_id,omitempty"`
	Days          int      `json:"days"`
	Ingredients   []string `json:"ingredients"`
	DietaryPrefs  []string `json:"dietary_prefs"`
	CulturalPrefs []string `json:"cultural_prefs"`
	GeneratedAt   string   `json:"generated_at"` // RFC3339 字串，往返比較不受時鐘精度影響
	SamplePlan    bool     `json:"sample_plan,omitempty"`
	Culture       string   `json:"culture,omitempty"`
}

// ExportDocument 穩定可序列化的交換文件：計劃按餐段名稱作鍵、
// 食譜欄位完整內嵌、購物清單按分類分組、營養總和為攤平數值。
// 匯入後可直接供購物清單與營養計算使用，不需重跑過濾與組裝。
type ExportDocument struct {
	MealPlan     MultiDayPlan    `json:"meal_plan"`
	ShoppingList ShoppingList    `json:"shopping_list"`
	Nutrition    NutritionTotals `json:"nutrition"`
	Warnings     []string        `json:"warnings,omitempty"`
	Metadata     PlanMetadata    `json:"metadata"`
}

// Export 將文件序列化為縮排 JSON
func Export(doc *ExportDocument) ([]byte, error) {
	data, err := common.ToJSONIndent(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export document: %w", err)
	}
	return []byte(data), nil
}

// Import 解析並驗證先前匯出的文件。結構或枚舉不合法時
// 回報 INVALID_IMPORT_FORMAT，不做部分接受。
func Import(data []byte) (*ExportDocument, error) {
	var doc ExportDocument
	if err := common.ParseJSONBytes(data, &doc); err != nil {
		return nil, common.NewError(common.ErrCodeInvalidImport,
			"匯入的計劃不是有效的 JSON 文件", 400, err)
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validateDocument 驗證匯入文件的計劃結構與標籤枚舉
func validateDocument(doc *ExportDocument) error {
	if len(doc.MealPlan.Days) == 0 {
		return common.NewError(common.ErrCodeInvalidImport, "匯入的計劃不含任何天數", 400, nil)
	}
	for _, day := range doc.MealPlan.Days {
		if day.Plan.Meals == nil {
			return common.NewError(common.ErrCodeInvalidImport,
				fmt.Sprintf("第 %d 天缺少餐段內容", day.Day), 400, nil)
		}
		for slot, recipe := range day.Plan.Meals {
			if _, err := ParseMealSlot(string(slot)); err != nil {
				return common.NewError(common.ErrCodeInvalidImport,
					fmt.Sprintf("第 %d 天包含未知餐段 %q", day.Day, slot), 400, nil)
			}
			if recipe == nil {
				continue
			}
			if recipe.Slot != slot {
				return common.NewError(common.ErrCodeInvalidImport,
					fmt.Sprintf("食譜 %q 的餐段 %q 與所在鍵 %q 不一致", recipe.Name, recipe.Slot, slot), 400, nil)
			}
			ctx := FilterContext{Dietary: recipe.DietaryTags, Cultural: recipe.CulturalTags}
			if err := ctx.Validate(); err != nil {
				return common.NewError(common.ErrCodeInvalidImport,
					fmt.Sprintf("食譜 %q 帶有未知標籤", recipe.Name), 400, err)
			}
		}
	}
	return nil
}
