package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// LoggerMiddleware 访问日志中间件，基于全局logrus实例输出结构化请求日志
type LoggerMiddleware struct {
	logger *logrus.Logger
}

// NewLoggerMiddleware 创建访问日志中间件实例
func NewLoggerMiddleware() *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger.GetLogger(),
	}
}

// Logger 访问日志中间件
func (m *LoggerMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		m.logger.WithFields(logrus.Fields{
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
			"method":    c.Request.Method,
			"path":      path,
			"error":     c.Errors.ByType(gin.ErrorTypePrivate).String(),
		}).Info("HTTP请求")
	}
}
