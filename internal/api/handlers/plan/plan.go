package plan

import (
	"errors"
	"io"
	"net/http"

	"meal-planner/internal/core/export"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/session"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRequest 計劃產生請求
type GenerateRequest struct {
	Days          int      `json:"days"`                           // 1-30，省略時為 1
	Ingredients   []string `json:"ingredients,omitempty"`          // 手邊食材名稱
	DietaryPrefs  []string `json:"dietary_preferences,omitempty"`  // 飲食限制（全部要滿足）
	CulturalPrefs []string `json:"cultural_preferences,omitempty"` // 文化偏好（命中任一）
	AllowFallback bool     `json:"allow_fallback,omitempty"`       // 空餐段時放寬為整個語料庫
}

// Handler 計劃處理器
type Handler struct {
	planner  *mealplan.Planner
	sessions *session.Store
	delivery *export.Client
}

// NewHandler 創建計劃處理器
func NewHandler(planner *mealplan.Planner, sessions *session.Store, delivery *export.Client) *Handler {
	return &Handler{
		planner:  planner,
		sessions: sessions,
		delivery: delivery,
	}
}

// HandleGenerate 產生膳食計劃並保存為會話
func (h *Handler) HandleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}
	if req.Days == 0 {
		req.Days = 1
	}

	doc, err := h.planner.GeneratePlan(c.Request.Context(), mealplan.PlanRequest{
		Days:          req.Days,
		Ingredients:   req.Ingredients,
		DietaryPrefs:  req.DietaryPrefs,
		CulturalPrefs: req.CulturalPrefs,
		AllowFallback: req.AllowFallback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	doc.Metadata.PlanID = common.GenerateUUID()
	if err := h.sessions.Save(c.Request.Context(), doc.Metadata.PlanID, doc); err != nil {
		common.LogError("保存計劃會話失敗",
			zap.String("plan_id", doc.Metadata.PlanID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// HandleExport 以縮排 JSON 匯出已保存的計劃
func (h *Handler) HandleExport(c *gin.Context) {
	planID := c.Param("id")
	doc, err := h.sessions.Load(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := mealplan.Export(doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="meal_plan_`+planID+`.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// HandleImport 匯入計劃文件並保存為新會話。
// 格式不正確回 400，成功時文件內容原樣保留。
func (h *Handler) HandleImport(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	doc, err := mealplan.Import(body)
	if err != nil {
		respondError(c, err)
		return
	}

	if doc.Metadata.PlanID == "" {
		doc.Metadata.PlanID = common.GenerateUUID()
	}
	if err := h.sessions.Save(c.Request.Context(), doc.Metadata.PlanID, doc); err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("計劃已匯入",
		zap.String("plan_id", doc.Metadata.PlanID),
		zap.Int("days", len(doc.MealPlan.Days)),
	)
	c.JSON(http.StatusOK, doc)
}

// HandleDeliver 將已保存的計劃送往外部渲染服務
func (h *Handler) HandleDeliver(c *gin.Context) {
	planID := c.Param("id")
	doc, err := h.sessions.Load(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.delivery.Deliver(c.Request.Context(), planID, doc); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "delivered",
		"plan_id": planID,
	})
}

// respondError 將錯誤轉為統一的 JSON 響應
func respondError(c *gin.Context, err error) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, gin.H{
			"error": customErr.Message,
			"code":  customErr.Code,
		})
		return
	}

	common.LogError("未分類的處理器錯誤",
		zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}
