package types

// GenerateLinkRequest 单个限时访问链接请求.
// AssetID 与 ObjectKey 二选一，AssetID 优先；Variant 指定取变体而非原图.
type GenerateLinkRequest struct {
	AssetID       string `json:"asset_id,omitempty"`
	ObjectKey     string `json:"object_key,omitempty"`
	Variant       string `json:"variant,omitempty"`
	ExpirySeconds int    `json:"expiry_seconds,omitempty"` // 可选：缺省使用服务默认值
	Download      bool   `json:"download,omitempty"`       // 为 true 时设置附件下载头
	FileName      string `json:"file_name,omitempty"`      // 下载时使用的文件名
}

// GenerateLinkResponse 单个限时访问链接响应.
type GenerateLinkResponse struct {
	ObjectKey string `json:"object_key"`
	GetURL    string `json:"get_url"`
	ExpiresIn int    `json:"expires_in"`
}

// BulkGenerateLinksRequest 批量限时访问链接请求.
type BulkGenerateLinksRequest struct {
	Items []GenerateLinkItem `binding:"required,min=1,dive" json:"items"`
	// ExpirySeconds 对整批生效，可被单项覆盖.
	ExpirySeconds int `json:"expiry_seconds,omitempty"`
}

// GenerateLinkItem 批量请求中的单项.
type GenerateLinkItem struct {
	AssetID       string `json:"asset_id,omitempty"`
	ObjectKey     string `json:"object_key,omitempty"`
	Variant       string `json:"variant,omitempty"`
	ExpirySeconds int    `json:"expiry_seconds,omitempty"`
	Download      bool   `json:"download,omitempty"`
	FileName      string `json:"file_name,omitempty"`
}

// LinkResult 批量请求中的单项结果，失败不影响同批其他项.
type LinkResult struct {
	AssetID   string `json:"asset_id,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
	GetURL    string `json:"get_url,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// BulkGenerateLinksResponse 批量限时访问链接响应.
type BulkGenerateLinksResponse struct {
	Results    []LinkResult `json:"results"`
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
}

// EntityLinksRequest 为实体的全部图片批量签发链接.
type EntityLinksRequest struct {
	EntityType    string `binding:"required" json:"entity_type"`
	EntityID      string `binding:"required" json:"entity_id"`
	Purpose       string `json:"purpose,omitempty"` // 可选：按用途过滤
	Variant       string `json:"variant,omitempty"` // 可选：取变体而非原图
	ExpirySeconds int    `json:"expiry_seconds,omitempty"`
}

// EntityLinksResponse 实体图片链接批量签发响应.
type EntityLinksResponse struct {
	Results    []LinkResult `json:"results"`
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
}
