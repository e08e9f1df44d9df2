package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/service"
	"github.com/yeisme/assetvault/pkg/internal/types"
	"github.com/yeisme/assetvault/pkg/log"
)

// GenerateLink 为单个资产或对象键签发限时访问链接.
//
//	@Summary		签发访问链接
//	@Description	为指定资产（或对象键）签发限时预签名链接，可选附件下载头
//	@Tags			访问链接
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.GenerateLinkRequest	true	"链接请求"
//	@Success		200		{object}	types.GenerateLinkResponse	"签发结果"
//	@Failure		400		{object}	map[string]string			"TTL 超出范围或参数错误"
//	@Router			/api/v1/images/access/generate [post]
func GenerateLink(c *gin.Context) {
	var req types.GenerateLinkRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.GenerateLink(ctx, &req)
	if err != nil {
		log.Logger().Warn().Err(err).Msg("generate link failed")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// BulkGenerateLinks 批量签发限时访问链接.
//
//	@Summary		批量签发访问链接
//	@Tags			访问链接
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.BulkGenerateLinksRequest	true	"批量链接请求"
//	@Success		200		{object}	types.BulkGenerateLinksResponse	"逐项结果"
//	@Router			/api/v1/images/access/bulk-generate [post]
func BulkGenerateLinks(c *gin.Context) {
	var req types.BulkGenerateLinksRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.BulkGenerateLinks(ctx, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// EntityLinks 为实体的全部图片批量签发链接.
//
//	@Summary		按实体批量签发访问链接
//	@Tags			访问链接
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.EntityLinksRequest	true	"实体链接请求"
//	@Success		200		{object}	types.EntityLinksResponse	"逐项结果"
//	@Router			/api/v1/images/access/entity-generate [post]
func EntityLinks(c *gin.Context) {
	var req types.EntityLinksRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.EntityLinks(ctx, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
