// Package telemetry 提供遥测协作服务的接口和实现
// 负责向托管监控服务发送结构化日志和数值指标
// 所有发送都是尽力而为：遥测失败只记录本地日志，绝不影响HTTP响应
package telemetry

import "context"

// 指标单位
const (
	UnitMilliseconds = "Milliseconds"
	UnitCount        = "Count"
)

// 应用级指标名称
const (
	MetricRequestDuration  = "RequestDuration"
	MetricRequestCount     = "RequestCount"
	MetricErrorCount       = "ErrorCount"
	MetricApplicationStart = "ApplicationStart"
)

// Sink 遥测接收器接口
type Sink interface {
	// Log 发送一条结构化日志，字段由调用方组装
	Log(ctx context.Context, event map[string]interface{})

	// Metric 发送一个数值指标，dimensions为指标维度标签
	Metric(ctx context.Context, name string, value float64, unit string, dimensions map[string]string)
}

// NoopSink 空遥测接收器
// 遥测关闭时使用，所有操作直接丢弃
type NoopSink struct{}

// NewNoopSink 创建空遥测接收器
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

// Log 丢弃日志
func (s *NoopSink) Log(ctx context.Context, event map[string]interface{}) {}

// Metric 丢弃指标
func (s *NoopSink) Metric(ctx context.Context, name string, value float64, unit string, dimensions map[string]string) {
}
