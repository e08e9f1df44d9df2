package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobTrashPurge  = "trash.purge"
	JobOrphanSweep = "storage.orphan_sweep"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronTrashPurge  = "0 3 * * *"
	CronOrphanSweep = "30 4 * * *"
)
