// Package config 提供应用程序的配置管理
// 基于viper实现，支持配置文件、环境变量和默认值三级覆盖
// 环境变量优先级最高，便于容器化部署时注入云服务凭证
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序总配置
// 聚合服务器、数据库、日志以及三个外部协作服务（身份、存储、遥测）的配置项
type Config struct {
	Env       string          `mapstructure:"env"`       // 运行环境标识
	Server    ServerConfig    `mapstructure:"server"`    // HTTP服务器配置
	Database  DatabaseConfig  `mapstructure:"database"`  // 数据库配置
	Log       LogConfig       `mapstructure:"log"`       // 日志配置
	AWS       AWSConfig       `mapstructure:"aws"`       // AWS区域和凭证配置
	Cognito   CognitoConfig   `mapstructure:"cognito"`   // Cognito身份服务配置
	Storage   StorageConfig   `mapstructure:"storage"`   // 对象存储配置
	Telemetry TelemetryConfig `mapstructure:"telemetry"` // 遥测配置
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Port         int `mapstructure:"port"`          // 监听端口
	ReadTimeout  int `mapstructure:"read_timeout"`  // 读超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"` // 写超时（秒）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动，目前支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据库连接字符串
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（秒）
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别 (debug, info, warn, error)
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// AWSConfig AWS区域和凭证配置
// 三个AWS协作服务（Cognito、S3、CloudWatch）共用同一组凭证
type AWSConfig struct {
	Region          string `mapstructure:"region"`            // AWS区域
	AccessKeyID     string `mapstructure:"access_key_id"`     // 访问密钥ID，为空时走SDK默认凭证链
	SecretAccessKey string `mapstructure:"secret_access_key"` // 访问密钥Secret
	SessionToken    string `mapstructure:"session_token"`     // 临时会话令牌，可选
}

// CognitoConfig Cognito身份服务配置
type CognitoConfig struct {
	ClientID string `mapstructure:"client_id"` // 用户池应用客户端ID
}

// StorageConfig 对象存储配置
// Provider决定使用哪个云厂商，默认s3；其余字段用于非AWS厂商的认证
type StorageConfig struct {
	Provider  string `mapstructure:"provider"`   // 存储提供商：s3、aliyun、tencent、qiniu
	Bucket    string `mapstructure:"bucket"`     // 存储桶名称
	Region    string `mapstructure:"region"`     // 存储区域，为空时使用AWS区域
	Endpoint  string `mapstructure:"endpoint"`   // 自定义服务端点，可选
	AccessKey string `mapstructure:"access_key"` // 非AWS厂商的访问密钥ID
	SecretKey string `mapstructure:"secret_key"` // 非AWS厂商的访问密钥Secret
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`  // 是否启用CloudWatch遥测
	AppName string `mapstructure:"app_name"` // 应用名称，用作指标命名空间和日志组后缀
}

// Load 加载应用程序配置
// 读取顺序：默认值 -> config.yaml（可选） -> 环境变量
// 返回:
//   - *Config: 配置实例
//   - error: 加载错误
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		// 配置文件可选，只有解析失败才报错
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 存储区域缺省时回落到AWS区域
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = cfg.AWS.Region
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "cloudnotes.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "both")
	v.SetDefault("log.file_path", "logs/app.log")

	v.SetDefault("aws.region", "eu-central-1")

	v.SetDefault("storage.provider", "s3")

	v.SetDefault("env", "development")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.app_name", "notes-app")
}

// bindEnvAliases 绑定与部署环境约定一致的环境变量别名
// 保持与现有部署脚本的变量命名兼容（PORT、AWS_*、COGNITO_CLIENT_ID等）
func bindEnvAliases(v *viper.Viper) {
	aliases := map[string]string{
		"env":                   "APP_ENV",
		"server.port":           "PORT",
		"database.driver":       "DB_DRIVER",
		"database.dsn":          "DB_DSN",
		"aws.region":            "AWS_REGION",
		"aws.access_key_id":     "AWS_ACCESS_KEY_ID",
		"aws.secret_access_key": "AWS_SECRET_ACCESS_KEY",
		"aws.session_token":     "AWS_SESSION_TOKEN",
		"cognito.client_id":     "COGNITO_CLIENT_ID",
		"storage.provider":      "STORAGE_PROVIDER",
		"storage.bucket":        "AWS_BUCKET_NAME",
		"storage.endpoint":      "STORAGE_ENDPOINT",
		"storage.access_key":    "STORAGE_ACCESS_KEY",
		"storage.secret_key":    "STORAGE_SECRET_KEY",
		"telemetry.app_name":    "APP_NAME",
	}
	for key, env := range aliases {
		// BindEnv只在env存在时生效，忽略返回错误（key非空时不会失败）
		_ = v.BindEnv(key, env)
	}
}
