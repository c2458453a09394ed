package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/cloudnotes/internal/service/telemetry"
)

// 遥测上报的单次超时时间，避免慢请求阻塞退出
const telemetryTimeout = 10 * time.Second

// TelemetryMiddleware 遥测中间件
// 每个请求记录开始/结束两条结构化日志，并上报耗时与计数指标
// 上报在独立goroutine中完成，失败只记录日志，不影响请求本身
type TelemetryMiddleware struct {
	sink telemetry.Sink
}

// NewTelemetryMiddleware 创建遥测中间件实例
func NewTelemetryMiddleware(sink telemetry.Sink) *TelemetryMiddleware {
	return &TelemetryMiddleware{sink: sink}
}

// Handler 返回gin中间件函数
func (m *TelemetryMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		clientIP := c.ClientIP()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
			defer cancel()
			m.sink.Log(ctx, map[string]interface{}{
				"event":  "request_start",
				"path":   path,
				"method": method,
				"ip":     clientIP,
			})
		}()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
			defer cancel()

			m.sink.Log(ctx, map[string]interface{}{
				"event":       "request_complete",
				"path":        path,
				"method":      method,
				"status_code": status,
				"duration_ms": duration.Milliseconds(),
			})

			dims := map[string]string{
				"Path":       path,
				"Method":     method,
				"StatusCode": strconv.Itoa(status),
			}
			m.sink.Metric(ctx, telemetry.MetricRequestDuration,
				float64(duration.Milliseconds()), telemetry.UnitMilliseconds, dims)
			m.sink.Metric(ctx, telemetry.MetricRequestCount,
				1, telemetry.UnitCount, dims)
		}()
	}
}
