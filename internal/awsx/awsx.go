// Package awsx 提供AWS SDK客户端的公共初始化逻辑
// 三个AWS协作服务（Cognito、S3、CloudWatch）共用同一份区域和凭证配置
package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/weiwangfds/cloudnotes/config"
)

// LoadConfig 构建AWS SDK配置
// 显式配置了访问密钥时使用静态凭证，否则走SDK默认凭证链
func LoadConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
