package queue

// -------------------------- 图片资产领域 --------------------------

// AssetRef 标识资产在对象存储中的位置与基础元数据.
type AssetRef struct {
	AssetID     string `json:"asset_id"`
	Bucket      string `json:"bucket"`
	ObjectKey   string `json:"object_key"`
	ETag        string `json:"etag,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// AssetStoredPayload 原图与变体已写入对象存储且元数据入库.
type AssetStoredPayload struct {
	Asset      AssetRef `json:"asset"`
	EntityType string   `json:"entity_type"`
	EntityID   string   `json:"entity_id"`
	Purpose    string   `json:"purpose"`
	FileName   string   `json:"file_name,omitempty"`
	// VariantKeys 各变体的对象键，key 为变体名（thumbnail/medium/large）.
	VariantKeys map[string]string `json:"variant_keys,omitempty"`
	// Warnings 非空表示部分变体生成失败，资产以降级状态入库.
	Warnings []string `json:"warnings,omitempty"`
}

// AssetDeletedPayload 资产被删除.
type AssetDeletedPayload struct {
	Asset      AssetRef `json:"asset"`
	EntityType string   `json:"entity_type"`
	EntityID   string   `json:"entity_id"`
	// Hard 为 true 表示物理删除（存储对象已移除），false 表示进入回收站.
	Hard bool `json:"hard"`
	// RemovedKeys 硬删时实际从存储移除的对象键.
	RemovedKeys []string `json:"removed_keys,omitempty"`
}

// AssetOrphanedPayload 补偿删除失败后存储中遗留的孤儿对象.
// 消费者（或定时清理任务）应按键列表重试删除.
type AssetOrphanedPayload struct {
	Bucket string `json:"bucket"`
	// OrphanKeys 遗留在存储中、没有元数据指向的对象键.
	OrphanKeys []string `json:"orphan_keys"`
	Reason     string   `json:"reason,omitempty"`
}

// AssetPrimaryPayload 主图变更.
type AssetPrimaryPayload struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	AssetID    string `json:"asset_id"`
	// PrevAssetID 之前的主图，首次设置时为空.
	PrevAssetID string `json:"prev_asset_id,omitempty"`
}

// AssetReorderPayload 展示顺序变更.
type AssetReorderPayload struct {
	EntityType string   `json:"entity_type"`
	EntityID   string   `json:"entity_id"`
	AssetIDs   []string `json:"asset_ids"`
}

// -------------------------- 访问链接领域 --------------------------

// LinkIssuedPayload 签发了限时访问链接.
type LinkIssuedPayload struct {
	AssetID   string `json:"asset_id"`
	ObjectKey string `json:"object_key"`
	// TTLSeconds 链接有效期（秒）.
	TTLSeconds int  `json:"ttl_seconds"`
	Download   bool `json:"download,omitempty"`
}

// -------------------------- 回收站领域 --------------------------

// TrashPurgedPayload 回收站超期资产被物理清除.
type TrashPurgedPayload struct {
	// PurgedAssetIDs 被清除的资产 ID 列表.
	PurgedAssetIDs []string `json:"purged_asset_ids"`
	// RetentionDays 触发清除的保留天数配置.
	RetentionDays int `json:"retention_days"`
}
