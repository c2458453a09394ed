package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/logger"
	"github.com/weiwangfds/cloudnotes/internal/response"
	"github.com/weiwangfds/cloudnotes/internal/service/telemetry"
)

// Recovery panic恢复中间件
// 记录panic详情并上报错误计数指标，对外只返回通用错误消息
func Recovery(sink telemetry.Sink) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.Errorf("[恢复中间件] 请求处理panic: %s %s, 原因: %v",
			c.Request.Method, path, recovered)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
			defer cancel()
			sink.Metric(ctx, telemetry.MetricErrorCount, 1, telemetry.UnitCount,
				map[string]string{
					"ErrorType": "panic",
					"Path":      path,
				})
			sink.Log(ctx, map[string]interface{}{
				"event":     "panic_recovered",
				"path":      path,
				"reason":    recovered,
				"timestamp": time.Now().Format(time.RFC3339),
			})
		}()

		response.InternalServerError(c,
			apperrors.GetErrorMessage(apperrors.ErrInternalServer))
		c.Abort()
	})
}
