package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/handle"
)

// RegisterAccessRoutes 注册访问链接相关路由.
func RegisterAccessRoutes(g *gin.RouterGroup) {
	// 预签名访问链接路由
	accessRoutes := g.Group("/access")
	{
		// 单个资产生成访问链接
		accessRoutes.POST("/links", handle.GenerateLink)

		// 批量生成访问链接
		accessRoutes.POST("/links/batch", handle.BulkGenerateLinks)

		// 按实体批量生成访问链接
		accessRoutes.POST("/links/entity", handle.EntityLinks)
	}
}
