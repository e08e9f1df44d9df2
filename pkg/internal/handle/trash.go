package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/service"
)

// ListTrash 列出回收站中的图片.
//
//	@Summary		回收站列表
//	@Tags			回收站
//	@Produce		json
//	@Param			entity_type	query		string					false	"实体类型过滤"
//	@Param			entity_id	query		string					false	"实体ID过滤"
//	@Success		200			{object}	types.ListTrashResponse	"回收站内容"
//	@Router			/api/v1/images/trash [get]
func ListTrash(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.ListTrash(ctx, c.Query("entity_type"), c.Query("entity_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RestoreImage 从回收站恢复图片.
//
//	@Summary		恢复图片
//	@Tags			回收站
//	@Produce		json
//	@Success		200	{object}	types.RestoreImageResponse	"恢复结果"
//	@Router			/api/v1/images/trash/{imageId}/restore [post]
func RestoreImage(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.RestoreImage(ctx, c.Param("imageId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// EmptyTrash 立即物理清除回收站（不等保留期）.
//
//	@Summary		清空回收站
//	@Tags			回收站
//	@Produce		json
//	@Success		200	{object}	types.EmptyTrashResponse	"清除结果"
//	@Router			/api/v1/images/trash [delete]
func EmptyTrash(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	// 清空操作不设时间下限，立刻清掉全部软删行
	resp, err := svc.PurgeTrash(ctx, time.Now().Add(time.Second))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
