package export

import (
	"context"
	"fmt"
	"net/http"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 匯出交付客戶端。完成的計劃文件送往外部渲染
// 服務（排版、寄送等在本服務範圍之外）。
type Client struct {
	config *config.DeliveryConfig
	client *resty.Client
}

// NewClient 創建交付客戶端
func NewClient(cfg *config.DeliveryConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token))
	}

	return &Client{
		config: cfg,
		client: client,
	}
}

// Deliver 將計劃文件送往外部渲染服務
func (c *Client) Deliver(ctx context.Context, planID string, doc *mealplan.ExportDocument) error {
	if !c.config.Enabled {
		return common.ErrDeliveryDisabled
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(doc).
		Post("/render")

	if err != nil {
		return fmt.Errorf("failed to send plan to delivery service: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		common.LogWarn("交付服務回應異常",
			zap.String("plan_id", planID),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", string(resp.Body())),
		)
		return common.NewError(common.ErrCodeDeliveryFailed,
			fmt.Sprintf("delivery service returned status %d", resp.StatusCode()), 502, nil)
	}

	common.LogInfo("計劃已交付",
		zap.String("plan_id", planID),
		zap.Int("status", resp.StatusCode()),
	)
	return nil
}
