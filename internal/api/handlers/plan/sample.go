package plan

import (
	"net/http"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SampleRequest 範例計劃請求，天數可省略
type SampleRequest struct {
	Days int `json:"days"`
}

// HandleListSamples 列出可用的範例計劃文化
func (h *Handler) HandleListSamples(c *gin.Context) {
	cultures := make([]string, 0, len(mealplan.Cultures))
	for _, culture := range mealplan.Cultures {
		cultures = append(cultures, string(culture))
	}
	c.JSON(http.StatusOK, gin.H{
		"cultures": cultures,
	})
}

// HandleGenerateSample 產生指定文化的範例計劃。
// 等同於只帶單一文化偏好的一般請求，結果標記為範例。
func (h *Handler) HandleGenerateSample(c *gin.Context) {
	culture := c.Param("culture")
	if _, err := mealplan.ParseCulturalTags([]string{culture}); err != nil {
		respondError(c, err)
		return
	}

	var req SampleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
				"code":  common.ErrCodeInvalidRequest,
			})
			return
		}
	}
	if req.Days == 0 {
		req.Days = 1
	}

	doc, err := h.planner.GeneratePlan(c.Request.Context(), mealplan.PlanRequest{
		Days:          req.Days,
		CulturalPrefs: []string{culture},
		SamplePlan:    true,
		Culture:       culture,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	doc.Metadata.PlanID = common.GenerateUUID()
	if err := h.sessions.Save(c.Request.Context(), doc.Metadata.PlanID, doc); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
