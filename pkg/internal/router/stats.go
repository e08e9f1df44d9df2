package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/handle"
)

// RegisterStatsRoutes 注册统计相关路由.
func RegisterStatsRoutes(g *gin.RouterGroup) {
	// 统计路由
	statsRoutes := g.Group("/stats")
	{
		statsRoutes.GET("/images", handle.AssetStats) // 图片资产统计
	}
}
