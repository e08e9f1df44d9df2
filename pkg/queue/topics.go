// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：av.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：asset(图片资产)、link(访问链接)、trash(回收站)
// 动作：存储相关(stored/deleted/orphaned)、访问相关(issued)、清理相关(purged)

const (
	// 图片资产领域.
	TopicAssetStored   = "av.asset.stored"   // 原图与变体已写入对象存储且元数据入库
	TopicAssetDeleted  = "av.asset.deleted"  // 资产被删除（软删或硬删，见负载 Hard 字段）
	TopicAssetOrphaned = "av.asset.orphaned" // 元数据写入失败后补偿删除未能清干净，存储中遗留孤儿对象
	TopicAssetPrimary  = "av.asset.primary"  // 主图变更
	TopicAssetReorder  = "av.asset.reorder"  // 展示顺序变更

	// 访问链接领域.
	TopicLinkIssued = "av.link.issued" // 签发了限时访问链接

	// 回收站领域.
	TopicTrashPurged = "av.trash.purged" // 回收站超期资产被物理清除
)

// 主题分组，用于批量操作或权限控制.
var (
	// 图片资产相关主题集合.
	AssetTopics = []string{
		TopicAssetStored, TopicAssetDeleted, TopicAssetOrphaned,
		TopicAssetPrimary, TopicAssetReorder,
	}

	// 访问链接相关主题集合.
	LinkTopics = []string{TopicLinkIssued}

	// 回收站相关主题集合.
	TrashTopics = []string{TopicTrashPurged}
)
