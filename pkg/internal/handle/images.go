package handle

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/service"
	"github.com/yeisme/assetvault/pkg/internal/types"
	"github.com/yeisme/assetvault/pkg/log"
)

// UploadImage 处理图片上传：multipart 表单，file 字段为文件本体.
//
//	@Summary		上传图片
//	@Description	上传单张图片，服务端校验类型与大小并生成展示变体
//	@Tags			图片资产
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			entityType	path		string						true	"实体类型"
//	@Param			entityId	path		string						true	"实体ID"
//	@Param			file		formData	file						true	"图片文件"
//	@Param			metadata	formData	types.UploadImageMetadata	false	"附加元数据"
//	@Success		200			{object}	types.UploadImageResponse	"上传结果"
//	@Failure		400			{object}	map[string]string			"请求参数错误"
//	@Failure		413			{object}	map[string]string			"文件过大"
//	@Failure		415			{object}	map[string]string			"类型不支持"
//	@Router			/api/v1/images/{entityType}/{entityId} [post]
func UploadImage(c *gin.Context) {
	l := log.Logger()

	var meta types.UploadImageMetadata
	if err := c.ShouldBind(&meta); err != nil {
		l.Warn().Err(err).Msg("invalid upload metadata")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entityType, entityID, err := checkEntity(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.UploadImage(ctx, entityType, entityID, fh.Filename, data, &meta)
	if err != nil {
		l.Warn().Err(err).Str("entity_type", entityType).Msg("upload image failed")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadImagesBatch 处理多图上传：multipart 表单，files 字段为文件数组.
//
//	@Summary		批量上传图片
//	@Description	一次上传多张图片，单张失败不影响其余，逐项返回结果
//	@Tags			图片资产
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			entityType	path		string						true	"实体类型"
//	@Param			entityId	path		string						true	"实体ID"
//	@Param			files		formData	[]file						true	"图片文件数组"
//	@Param			metadata	formData	string						false	"元数据JSON数组，按文件顺序对应"
//	@Success		200			{object}	types.BatchUploadResponse	"批量上传结果"
//	@Failure		400			{object}	map[string]string			"请求参数错误"
//	@Router			/api/v1/images/{entityType}/{entityId}/batch [post]
func UploadImagesBatch(c *gin.Context) {
	l := log.Logger()

	form, err := c.MultipartForm()
	if err != nil {
		l.Warn().Err(err).Msg("failed to parse multipart form")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})

		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files field is required"})
		return
	}

	entityType, entityID, err := checkEntity(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 按文件顺序对应的元数据数组
	metas := make(map[string]*types.UploadImageMetadata)
	if metadataStr := c.PostForm("metadata"); metadataStr != "" {
		var metaList []types.UploadImageMetadata
		if unmarshalErr := sonic.UnmarshalString(metadataStr, &metaList); unmarshalErr == nil {
			for i := range metaList {
				if i < len(files) {
					metas[files[i].Filename] = &metaList[i]
				}
			}
		}
	}

	contents := make(map[string][]byte, len(files))

	for _, fh := range files {
		f, openErr := fh.Open()
		if openErr != nil {
			l.Warn().Err(openErr).Str("filename", fh.Filename).Msg("failed to open uploaded file")
			continue
		}

		data, readErr := io.ReadAll(f)
		_ = f.Close()

		if readErr != nil {
			l.Warn().Err(readErr).Str("filename", fh.Filename).Msg("failed to read uploaded file")
			continue
		}

		contents[fh.Filename] = data
	}

	if len(contents) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no readable files"})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.UploadImages(ctx, entityType, entityID, contents, metas)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListImages 查询实体的图片列表.
//
//	@Summary		查询实体图片
//	@Description	按实体查询活跃图片，按展示顺序排列，支持按用途过滤
//	@Tags			图片资产
//	@Produce		json
//	@Param			entityType	path		string					true	"实体类型"
//	@Param			entityId	path		string					true	"实体ID"
//	@Param			purpose		query		string					false	"用途过滤"
//	@Success		200			{object}	types.ListImagesResponse	"图片列表"
//	@Router			/api/v1/images/{entityType}/{entityId} [get]
func ListImages(c *gin.Context) {
	var req types.ListImagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entityType, entityID, err := checkEntity(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.ListImages(ctx, entityType, entityID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReorderImages 批量调整展示顺序.
//
//	@Summary		调整展示顺序
//	@Tags			图片资产
//	@Accept			json
//	@Produce		json
//	@Param			items	body		types.ReorderImagesRequest	true	"顺序调整项"
//	@Success		200		{object}	types.ReorderImagesResponse	"调整结果"
//	@Router			/api/v1/images/{entityType}/{entityId}/reorder [patch]
func ReorderImages(c *gin.Context) {
	var req types.ReorderImagesRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entityType, entityID, err := checkEntity(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.Reorder(ctx, entityType, entityID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetPrimaryImage 将指定图片设为实体主图.
//
//	@Summary		设置主图
//	@Tags			图片资产
//	@Produce		json
//	@Success		200	{object}	types.SetPrimaryResponse	"设置结果"
//	@Router			/api/v1/images/{entityType}/{entityId}/primary/{imageId} [post]
func SetPrimaryImage(c *gin.Context) {
	entityType, entityID, err := checkEntity(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.SetPrimary(ctx, entityType, entityID, c.Param("imageId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteImage 删除图片，默认软删进回收站，hard=true 时物理删除.
//
//	@Summary		删除图片
//	@Tags			图片资产
//	@Produce		json
//	@Param			hard	query		bool						false	"是否物理删除"
//	@Success		200		{object}	types.DeleteImageResponse	"删除结果"
//	@Router			/api/v1/images/{entityType}/{entityId}/{imageId} [delete]
func DeleteImage(c *gin.Context) {
	entityType, entityID, err := checkEntity(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hard := c.Query("hard") == "true"

	ctx := c.Request.Context()
	svc := service.NewImageService(ctx)

	resp, err := svc.DeleteImage(ctx, entityType, entityID, c.Param("imageId"), hard)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
