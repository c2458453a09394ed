package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/awsx"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// CloudWatchSink CloudWatch遥测接收器实现
// 指标写入CloudWatch Metrics（命名空间<app>/metrics），
// 结构化日志写入CloudWatch Logs的日志组/aws/app/<app>
// 日志流按天命名，启动时完成日志组和日志流的初始化
type CloudWatchSink struct {
	metrics   *cloudwatch.Client
	logs      *cloudwatchlogs.Client
	namespace string
	logGroup  string
	logStream string
}

// NewCloudWatchSink 创建CloudWatch遥测接收器实例
// 参数:
//   - ctx: 上下文
//   - awsCfg: AWS区域和凭证配置
//   - appName: 应用名称，用作指标命名空间和日志组后缀
// 返回:
//   - *CloudWatchSink: 初始化完成的接收器实例
//   - error: 初始化过程中的错误信息
func NewCloudWatchSink(ctx context.Context, awsCfg config.AWSConfig, appName string) (*CloudWatchSink, error) {
	sdkCfg, err := awsx.LoadConfig(ctx, awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config for cloudwatch: %w", err)
	}

	s := &CloudWatchSink{
		metrics:   cloudwatch.NewFromConfig(sdkCfg),
		logs:      cloudwatchlogs.NewFromConfig(sdkCfg),
		namespace: fmt.Sprintf("%s/metrics", appName),
		logGroup:  fmt.Sprintf("/aws/app/%s", appName),
		logStream: fmt.Sprintf("%s-logs-%s", appName, time.Now().Format("2006-01-02")),
	}

	s.initLogStream(ctx)
	return s, nil
}

// initLogStream 初始化日志组和日志流
// 日志组或日志流已存在时忽略错误
func (s *CloudWatchSink) initLogStream(ctx context.Context) {
	var alreadyExists *cwltypes.ResourceAlreadyExistsException

	_, err := s.logs.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(s.logGroup),
	})
	if err != nil && !errors.As(err, &alreadyExists) {
		logger.Errorf("[CloudWatch] 创建日志组失败: %s, 错误: %v", s.logGroup, err)
	}

	_, err = s.logs.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(s.logGroup),
		LogStreamName: aws.String(s.logStream),
	})
	if err != nil && !errors.As(err, &alreadyExists) {
		logger.Errorf("[CloudWatch] 创建日志流失败: %s, 错误: %v", s.logStream, err)
	}

	logger.Infof("[CloudWatch] 日志流初始化完成: %s/%s", s.logGroup, s.logStream)
}

// Log 发送一条结构化日志
func (s *CloudWatchSink) Log(ctx context.Context, event map[string]interface{}) {
	now := time.Now()
	if _, ok := event["timestamp"]; !ok {
		event["timestamp"] = now.Format(time.RFC3339)
	}

	message, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("[CloudWatch] 序列化日志事件失败: %v", err)
		return
	}

	_, err = s.logs.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(s.logGroup),
		LogStreamName: aws.String(s.logStream),
		LogEvents: []cwltypes.InputLogEvent{
			{
				Message:   aws.String(string(message)),
				Timestamp: aws.Int64(now.UnixMilli()),
			},
		},
	})
	if err != nil {
		logger.Errorf("[CloudWatch] 发送日志失败: %v", err)
	}
}

// Metric 发送一个数值指标
func (s *CloudWatchSink) Metric(ctx context.Context, name string, value float64, unit string, dimensions map[string]string) {
	var dims []cwtypes.Dimension
	for dimName, dimValue := range dimensions {
		dims = append(dims, cwtypes.Dimension{
			Name:  aws.String(dimName),
			Value: aws.String(dimValue),
		})
	}

	_, err := s.metrics.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(s.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(name),
				Dimensions: dims,
				Unit:       cwtypes.StandardUnit(unit),
				Value:      aws.Float64(value),
				Timestamp:  aws.Time(time.Now()),
			},
		},
	})
	if err != nil {
		logger.Errorf("[CloudWatch] 发送指标失败: %s, 错误: %v", name, err)
	}
}
