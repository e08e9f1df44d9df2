package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishAssetStored 发布 av.asset.stored 事件。
// 用于将原图与变体写入对象存储并同步元数据到数据库后，通知下游流程。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishAssetStored(pub message.Publisher, payload AssetStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetStored, msg)
}

// ParseAssetStored 将 Watermill 消息解析为强类型 Envelope（AssetStoredPayload）。
func ParseAssetStored(msg *message.Message) (Message[AssetStoredPayload], error) {
	return ParseWatermillMessage[AssetStoredPayload](msg)
}

// PublishAssetDeleted 发布 av.asset.deleted 事件。
func PublishAssetDeleted(pub message.Publisher, payload AssetDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetDeleted, msg)
}

// ParseAssetDeleted 将 Watermill 消息解析为强类型 Envelope（AssetDeletedPayload）。
func ParseAssetDeleted(msg *message.Message) (Message[AssetDeletedPayload], error) {
	return ParseWatermillMessage[AssetDeletedPayload](msg)
}

// PublishAssetOrphaned 发布 av.asset.orphaned 事件。
// 补偿删除失败时调用，消费者应按键列表重试清理。
func PublishAssetOrphaned(pub message.Publisher, payload AssetOrphanedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetOrphaned, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetOrphaned, msg)
}

// ParseAssetOrphaned 将 Watermill 消息解析为强类型 Envelope（AssetOrphanedPayload）。
func ParseAssetOrphaned(msg *message.Message) (Message[AssetOrphanedPayload], error) {
	return ParseWatermillMessage[AssetOrphanedPayload](msg)
}

// PublishAssetPrimary 发布 av.asset.primary 事件。
func PublishAssetPrimary(pub message.Publisher, payload AssetPrimaryPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetPrimary, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetPrimary, msg)
}

// PublishAssetReorder 发布 av.asset.reorder 事件。
func PublishAssetReorder(pub message.Publisher, payload AssetReorderPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetReorder, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetReorder, msg)
}

// PublishLinkIssued 发布 av.link.issued 事件。
func PublishLinkIssued(pub message.Publisher, payload LinkIssuedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicLinkIssued, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicLinkIssued, msg)
}

// PublishTrashPurged 发布 av.trash.purged 事件。
func PublishTrashPurged(pub message.Publisher, payload TrashPurgedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicTrashPurged, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicTrashPurged, msg)
}
