package types

// GroupCount 按维度聚合的计数与字节数.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
	Size  int64  `json:"size"`
}

// AssetStatsRequest 统计查询过滤参数.
type AssetStatsRequest struct {
	EntityType string `form:"entity_type" json:"entity_type,omitempty"`
	EntityID   string `form:"entity_id"   json:"entity_id,omitempty"`
}

// AssetStatsResponse 资产统计响应.
type AssetStatsResponse struct {
	// TotalCount 活跃资产总数（不含回收站）.
	TotalCount int64 `json:"total_count"`
	// TotalSize 活跃资产原图总字节数.
	TotalSize int64 `json:"total_size"`
	// TrashCount 回收站中的资产数.
	TrashCount   int64        `json:"trash_count"`
	ByEntityType []GroupCount `json:"by_entity_type,omitempty"`
	ByPurpose    []GroupCount `json:"by_purpose,omitempty"`
	ByStatus     []GroupCount `json:"by_status,omitempty"`
}
