// Package configs 管理应用程序配置，包括数据库、对象存储、消息队列与图片处理策略.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
//
// Example accessing pipeline config:
//
//	pipeline := configs.GetConfig().Pipeline
//	fmt.Println(pipeline.MaxUploadBytes)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/yeisme/assetvault/pkg/rule"
)

const (
	// AppName 应用名称，用于客户端标识与事件 producer 字段.
	AppName = "assetvault"
	// AppVersion 应用版本.
	AppVersion = "1.0.0"
)

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		DB             DBConfig             `mapstructure:"db"`              // 数据库配置
		S3             S3Config             `mapstructure:"s3"`              // 对象存储配置
		MQ             MQConfig             `mapstructure:"mq"`              // 消息队列配置
		Server         ServerConfig         `mapstructure:"server"`          // 服务器配置
		Log            LogConfig            `mapstructure:"log"`             // 日志配置
		Pipeline       PipelineConfig       `mapstructure:"pipeline"`        // 图片资产管道策略
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // 监控配置
		Tracing        TracingConfig        `mapstructure:"tracing"`         // 追踪配置
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // 速率限制配置
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // 熔断器配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// path 可以是配置文件或包含 config.<ext> 的目录.
func InitConfig(path string) error {
	appViper = viper.New()

	// 设置默认值
	setAllDefaults(appViper)

	// path 为文件时直接使用，viper 自动检测格式；否则按目录查找 config.<ext>
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}
		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("ASSETVAULT")

	if err := appViper.ReadInConfig(); err != nil {
		// 找不到配置文件时继续使用默认值与环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := rule.ValidateStruct(&globalConfig); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置段的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig   ServerConfig
		dbConfig       DBConfig
		s3Config       S3Config
		mqConfig       MQConfig
		logConfig      LogConfig
		pipelineConfig PipelineConfig
		metricsConfig  MetricsConfig
		tracingConfig  TracingConfig
		rlConfig       RateLimitConfig
		cbConfig       CircuitBreakerConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	s3Config.setDefaults(v)
	mqConfig.setDefaults(v)
	logConfig.setDefaults(v)
	pipelineConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	tracingConfig.setDefaults(v)
	rlConfig.setDefaults(v)
	cbConfig.setDefaults(v)
}

// reloadConfigs 按需启用配置热重载.
func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例.
func GetViper() *viper.Viper {
	return appViper
}
