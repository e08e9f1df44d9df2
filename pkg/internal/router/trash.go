package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/handle"
)

// RegisterTrashRoutes 注册回收站相关路由.
func RegisterTrashRoutes(g *gin.RouterGroup) {
	trashRoutes := g.Group("/trash")
	{
		// 回收站列表(可按 entity_type/entity_id 过滤)
		trashRoutes.GET("", handle.ListTrash)

		// 恢复软删除的图片
		trashRoutes.POST("/:imageId/restore", handle.RestoreImage)

		// 清空回收站(永久删除全部)
		trashRoutes.DELETE("", handle.EmptyTrash)
	}
}
