// Package logger 提供全局日志系统
// 基于logrus实现，支持级别、格式和输出方式配置
// 同时接管Gin框架的默认日志输出，保证日志格式统一
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/cloudnotes/config"
)

// Logger 全局日志实例
var Logger *logrus.Logger

// defaultConfig 返回默认日志配置
func defaultConfig() config.LogConfig {
	return config.LogConfig{
		Level:    "info",
		Format:   "text",
		Output:   "both",
		FilePath: "logs/app.log",
	}
}

// Init 初始化日志系统
// 参数:
//   - cfg: 日志配置
// 返回值:
//   - error: 初始化错误
func Init(cfg config.LogConfig) error {
	if cfg.Level == "" {
		cfg = defaultConfig()
	}

	Logger = logrus.New()

	// 设置日志级别
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		Logger.Warnf("无效的日志级别 '%s'，使用默认级别 'info'", cfg.Level)
	}
	Logger.SetLevel(level)

	// 设置日志格式
	switch cfg.Format {
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// 设置输出
	if err := setupOutput(cfg); err != nil {
		return err
	}

	// 设置Gin的日志输出
	setupGinLogger()

	Logger.Info("日志系统初始化完成")
	return nil
}

// setupOutput 设置日志输出
func setupOutput(cfg config.LogConfig) error {
	switch cfg.Output {
	case "console":
		Logger.SetOutput(os.Stdout)
	case "file":
		logFile, err := openLogFile(cfg.FilePath)
		if err != nil {
			return err
		}
		Logger.SetOutput(logFile)
	case "both":
		logFile, err := openLogFile(cfg.FilePath)
		if err != nil {
			return err
		}
		Logger.SetOutput(io.MultiWriter(os.Stdout, logFile))
	default:
		Logger.SetOutput(os.Stdout)
		Logger.Warnf("无效的输出方式 '%s'，使用默认方式 'console'", cfg.Output)
	}
	return nil
}

// openLogFile 创建日志目录并打开日志文件
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

// setupGinLogger 设置Gin的日志输出
func setupGinLogger() {
	ginWriter := &GinLogWriter{logger: Logger}
	gin.DefaultWriter = ginWriter
	gin.DefaultErrorWriter = ginWriter
}

// GinLogWriter Gin日志写入器
type GinLogWriter struct {
	logger *logrus.Logger
}

// Write 实现io.Writer接口
func (w *GinLogWriter) Write(p []byte) (n int, err error) {
	w.logger.Info(string(p))
	return len(p), nil
}

// GetLogger 获取日志实例
func GetLogger() *logrus.Logger {
	if Logger == nil {
		// 日志未初始化时退回默认配置
		if err := Init(defaultConfig()); err != nil {
			logrus.Error("日志初始化失败，使用默认日志")
			return logrus.StandardLogger()
		}
	}
	return Logger
}

// Debugf 记录格式化调试级别日志
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Info 记录信息级别日志
func Info(args ...interface{}) {
	GetLogger().Info(args...)
}

// Infof 记录格式化信息级别日志
func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

// Warnf 记录格式化警告级别日志
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

// Error 记录错误级别日志
func Error(args ...interface{}) {
	GetLogger().Error(args...)
}

// Errorf 记录格式化错误级别日志
func Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

// WithFields 添加多个字段到日志条目
func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}
