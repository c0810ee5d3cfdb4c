package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// 日誌輔助函式在 InitLogger 之前被呼叫時必須安全退回 no-op，
// 否則引用它們的建構函式在測試中會直接崩潰。
func TestLogHelpersBeforeInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	assert.NotPanics(t, func() {
		LogInfo("測試訊息", zap.String("key", "value"))
		LogWarn("測試訊息")
		LogError("測試訊息", zap.Error(assert.AnError))
		LogDebug("測試訊息")
		LogCacheHit("plan", "abc")
		LogCacheMiss("plan", "abc")
		Sync()
	})
}

func TestLogHelpersConciseModeBeforeInit(t *testing.T) {
	saved := Logger
	savedMode := LogMode
	Logger = nil
	LogMode = "concise"
	defer func() {
		Logger = saved
		LogMode = savedMode
	}()

	assert.NotPanics(t, func() {
		LogInfo("請求完成")
		LogInfo("其他訊息會被過濾")
	})
}
