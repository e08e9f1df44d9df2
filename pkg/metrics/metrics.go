// Package metrics 提供监控指标功能，基于 Prometheus 标准.
//
// Example:
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.RequestCounter.WithLabelValues("POST", "/api/v1/images").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // 注册pprof端点

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/assetvault/pkg/configs"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// UploadCounter 上传结果计数器，label 为终态（completed/completed_with_warnings/failed）.
	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Total number of image uploads by terminal status",
		},
		[]string{"status"},
	)

	// VariantFailureCounter 单个变体生成/存储失败计数器.
	VariantFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_variant_failures_total",
			Help: "Total number of failed variant transcodes or uploads",
		},
		[]string{"variant", "stage"},
	)

	// OrphanedBlobCounter 补偿删除失败后遗留的孤儿对象计数器.
	OrphanedBlobCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "image_orphaned_blobs_total",
			Help: "Total number of storage objects orphaned after failed metadata writes",
		},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
)

// InitMetrics 初始化Metrics.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	// 注册标准收集器
	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// 注册自定义指标
	registry.MustRegister(
		RequestCounter,
		RequestDuration,
		UploadCounter,
		VariantFailureCounter,
		OrphanedBlobCounter,
	)

	return nil
}

// StartMetricsServer 在业务引擎上挂载Metrics端点.
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}
