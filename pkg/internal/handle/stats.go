package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/service"
	"github.com/yeisme/assetvault/pkg/internal/types"
)

// AssetStats 查询资产统计信息.
//
//	@Summary		资产统计
//	@Description	总量、回收站数量、按实体类型/用途/处理状态的聚合
//	@Tags			统计
//	@Produce		json
//	@Param			entity_type	query		string					false	"实体类型过滤"
//	@Param			entity_id	query		string					false	"实体ID过滤"
//	@Success		200			{object}	types.AssetStatsResponse	"统计结果"
//	@Router			/api/v1/images/stats [get]
func AssetStats(c *gin.Context) {
	var req types.AssetStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.Stats(ctx, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
