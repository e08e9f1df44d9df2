package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/handle"
)

// RegisterImagesRoutes 注册图片资产相关路由.
func RegisterImagesRoutes(g *gin.RouterGroup) {
	// 图片资产路由, 按所属实体分组
	imagesRoutes := g.Group("/images")
	{
		entityGroup := imagesRoutes.Group("/:entityType/:entityId")
		{
			// 上传图片(multipart 表单)
			entityGroup.POST("", handle.UploadImage)
			// 批量上传, 单张失败不影响其余
			entityGroup.POST("/batch", handle.UploadImagesBatch)
			// 实体图片列表
			entityGroup.GET("", handle.ListImages)
			// 调整展示顺序
			entityGroup.PATCH("/reorder", handle.ReorderImages)
			// 设置主图
			entityGroup.POST("/primary/:imageId", handle.SetPrimaryImage)
			// 删除图片(默认软删除, ?hard=true 永久删除)
			entityGroup.DELETE("/:imageId", handle.DeleteImage)
		}
	}
}
