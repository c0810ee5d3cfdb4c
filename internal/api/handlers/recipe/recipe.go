package recipe

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store 處理器需要的食譜讀取面
type Store interface {
	GetRecipe(ctx context.Context, id int64) (*mealplan.Recipe, error)
}

// RatingRequest 評分請求
type RatingRequest struct {
	Score int `json:"score" binding:"required"` // 1-5
}

// Handler 食譜處理器
type Handler struct {
	store   Store
	ratings *mealplan.RatingQueue
}

// NewHandler 創建食譜處理器
func NewHandler(store Store, ratings *mealplan.RatingQueue) *Handler {
	return &Handler{
		store:   store,
		ratings: ratings,
	}
}

// HandleGetRecipe 讀取單一食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid recipe id",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	recipe, err := h.store.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// HandleRating 提交評分。寫入經單一寫入者隊列序列化，
// 成功後的下一次計劃產生會反映新的平均值。
func (h *Handler) HandleRating(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid recipe id",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	if err := h.ratings.Enqueue(c.Request.Context(), id, req.Score); err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("評分已記錄",
		zap.Int64("recipe_id", id),
		zap.Int("score", req.Score),
	)
	c.JSON(http.StatusOK, gin.H{
		"status":    "recorded",
		"recipe_id": id,
		"score":     req.Score,
	})
}

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
