package types

// UploadImageMetadata 上传图片时附带的表单元数据.
type UploadImageMetadata struct {
	Purpose      string `form:"purpose"       json:"purpose,omitempty"`       // 可选：用途，缺省按实体类型推断
	AltText      string `form:"alt_text"      json:"alt_text,omitempty"`      // 可选：无障碍替代文本
	Caption      string `form:"caption"       json:"caption,omitempty"`       // 可选：说明文字
	DisplayOrder int    `form:"display_order" json:"display_order,omitempty"` // 可选：展示顺序
	IsPrimary    bool   `form:"is_primary"    json:"is_primary,omitempty"`    // 可选：上传后立即设为主图
	FileName     string `form:"file_name"     json:"file_name,omitempty"`     // 可选：覆盖原始文件名
}

// VariantResult 单个变体的生成结果.
type VariantResult struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url,omitempty"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// OptimizationStats 最大展示变体相对原图的压缩收益.
type OptimizationStats struct {
	OriginalSize   int64   `json:"original_size"`
	OptimizedSize  int64   `json:"optimized_size"`
	SavingsPercent float64 `json:"savings_percent"`
}

// UploadImageResponse 单张图片上传响应.
type UploadImageResponse struct {
	AssetID          string                   `json:"asset_id"`
	EntityType       string                   `json:"entity_type"`
	EntityID         string                   `json:"entity_id"`
	Purpose          string                   `json:"purpose"`
	Bucket           string                   `json:"bucket"`
	ObjectKey        string                   `json:"object_key"`
	PublicURL        string                   `json:"public_url,omitempty"`
	FileName         string                   `json:"file_name"`
	Size             int64                    `json:"size"`
	Width            int                      `json:"width"`
	Height           int                      `json:"height"`
	ContentType      string                   `json:"content_type"`
	IsPrimary        bool                     `json:"is_primary"`
	DisplayOrder     int                      `json:"display_order"`
	ProcessingStatus string                   `json:"processing_status"`
	Variants         map[string]VariantResult `json:"variants,omitempty"`
	// Optimization 原图与最大展示变体的字节数对比，仅位图且有变体时给出.
	Optimization *OptimizationStats `json:"optimization,omitempty"`
	// Warnings 非空表示部分变体生成失败，原图仍可用.
	Warnings []string `json:"warnings,omitempty"`
}

// BatchUploadResult 批量上传中的单项结果，失败不影响同批其他文件.
type BatchUploadResult struct {
	FileName string               `json:"file_name"`
	Success  bool                 `json:"success"`
	Error    string               `json:"error,omitempty"`
	Image    *UploadImageResponse `json:"image,omitempty"`
}

// BatchUploadResponse 批量上传响应.
type BatchUploadResponse struct {
	Results    []BatchUploadResult `json:"results"`
	Total      int                 `json:"total"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
}

// ImageInfo 图片资产的元数据视图.
type ImageInfo struct {
	AssetID          string                   `json:"asset_id"`
	EntityType       string                   `json:"entity_type"`
	EntityID         string                   `json:"entity_id"`
	Purpose          string                   `json:"purpose"`
	Bucket           string                   `json:"bucket"`
	ObjectKey        string                   `json:"object_key"`
	PublicURL        string                   `json:"public_url,omitempty"`
	FileName         string                   `json:"file_name"`
	OriginalFileName string                   `json:"original_file_name,omitempty"`
	Size             int64                    `json:"size"`
	Width            int                      `json:"width"`
	Height           int                      `json:"height"`
	ContentType      string                   `json:"content_type"`
	IsPrimary        bool                     `json:"is_primary"`
	DisplayOrder     int                      `json:"display_order"`
	ProcessingStatus string                   `json:"processing_status"`
	AltText          string                   `json:"alt_text,omitempty"`
	Caption          string                   `json:"caption,omitempty"`
	Variants         map[string]VariantResult `json:"variants,omitempty"`
	CreatedAt        string                   `json:"created_at"`
	UpdatedAt        string                   `json:"updated_at"`
	DeletedAt        string                   `json:"deleted_at,omitempty"`
}

// ListImagesRequest 查询实体图片列表的过滤参数.
type ListImagesRequest struct {
	Purpose string `form:"purpose" json:"purpose,omitempty"` // 可选：按用途过滤
}

// ListImagesResponse 实体图片列表.
type ListImagesResponse struct {
	Images []ImageInfo `json:"images"`
	Total  int         `json:"total"`
}

// ReorderImagesRequest 调整展示顺序请求.
type ReorderImagesRequest struct {
	Items []ReorderItem `binding:"required,min=1,dive" json:"items"`
}

// ReorderItem 单项顺序调整.
type ReorderItem struct {
	AssetID string `binding:"required" json:"asset_id"`
	Order   int    `binding:"gte=0"    json:"order"`
}

// ReorderResult 批量调整中的单项结果，失败不影响同批其他项.
type ReorderResult struct {
	AssetID string `json:"asset_id"`
	Order   int    `json:"order"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ReorderImagesResponse 调整展示顺序响应.
type ReorderImagesResponse struct {
	Results    []ReorderResult `json:"results"`
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
}

// SetPrimaryResponse 设置主图响应.
type SetPrimaryResponse struct {
	AssetID string `json:"asset_id"`
	// PrevAssetID 之前的主图，首次设置时为空.
	PrevAssetID string `json:"prev_asset_id,omitempty"`
}

// DeleteImageResponse 删除图片响应.
type DeleteImageResponse struct {
	AssetID string `json:"asset_id"`
	// Hard 为 true 表示物理删除，存储对象一并移除.
	Hard        bool     `json:"hard"`
	RemovedKeys []string `json:"removed_keys,omitempty"`
}
