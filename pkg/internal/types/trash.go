package types

// ListTrashResponse 回收站列表响应.
type ListTrashResponse struct {
	Images []ImageInfo `json:"images"`
	Total  int         `json:"total"`
}

// RestoreImageResponse 从回收站恢复响应.
type RestoreImageResponse struct {
	AssetID string `json:"asset_id"`
}

// EmptyTrashResponse 清空回收站响应.
type EmptyTrashResponse struct {
	// Purged 被物理清除的资产数.
	Purged int `json:"purged"`
	// OrphanKeys 存储删除失败遗留的对象键.
	OrphanKeys []string `json:"orphan_keys,omitempty"`
}
