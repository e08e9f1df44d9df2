// Package router 管理路由配置，负责将路径和处理器绑定到 gin 引擎.
// 处理器实现由 pkg/internal/handle 提供, router 包不包含业务逻辑.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册全部业务路由到传入的路由组(假定上层会用 g := engine.Group("/api/v1")).
func RegisterAPIRoutes(g *gin.RouterGroup) {
	RegisterImagesRoutes(g)
	RegisterAccessRoutes(g)
	RegisterStatsRoutes(g)
	RegisterTrashRoutes(g)
	RegisterSchedulerRoutes(g)
}
