// Package model 定义资产元数据的 GORM 模型.
package model

import (
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// EntityType 资产所属业务实体类型.
type EntityType string

const (
	EntityCatalogItem  EntityType = "catalog_item"
	EntityOrder        EntityType = "order"
	EntityDesignTask   EntityType = "design_task"
	EntityCustomer     EntityType = "customer"
	EntityManufacturer EntityType = "manufacturer"
	EntityUserProfile  EntityType = "user_profile"
	EntityOrganization EntityType = "organization"
)

// Valid 判断实体类型是否在已知枚举内.
func (t EntityType) Valid() bool {
	switch t {
	case EntityCatalogItem, EntityOrder, EntityDesignTask, EntityCustomer,
		EntityManufacturer, EntityUserProfile, EntityOrganization:
		return true
	}

	return false
}

// ImagePurpose 资产在实体上的用途，区分同一实体的多组图片.
type ImagePurpose string

const (
	PurposeGallery    ImagePurpose = "gallery"
	PurposeProfile    ImagePurpose = "profile"
	PurposeProduction ImagePurpose = "production"
	PurposeDesign     ImagePurpose = "design"
	PurposeLogo       ImagePurpose = "logo"
	PurposeThumbnail  ImagePurpose = "thumbnail"
	PurposeHero       ImagePurpose = "hero"
	PurposeAttachment ImagePurpose = "attachment"
)

// Valid 判断用途是否在已知枚举内.
func (p ImagePurpose) Valid() bool {
	switch p {
	case PurposeGallery, PurposeProfile, PurposeProduction, PurposeDesign,
		PurposeLogo, PurposeThumbnail, PurposeHero, PurposeAttachment:
		return true
	}

	return false
}

// ProcessingStatus 变体生成的处理状态机：pending → processing → completed|failed.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// LifecycleState 对外暴露的生命周期三态，调用方不直接判断 DeletedAt.
type LifecycleState string

const (
	LifecycleActive      LifecycleState = "active"
	LifecycleSoftDeleted LifecycleState = "soft_deleted"
	LifecycleHardDeleted LifecycleState = "hard_deleted"
)

// VariantInfo 单个变体的存储信息，序列化进 VariantsJSON.
type VariantInfo struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url,omitempty"`
	Size      int64  `json:"size"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// ImageAsset 图片资产模型：一次逻辑上传对应一行，变体信息内联在 VariantsJSON.
type ImageAsset struct {
	// ID ULID 字符串主键，创建时生成，不可变
	ID string `gorm:"primaryKey;size:26" json:"id"`

	// 实体绑定：逻辑归属，不做外键约束
	EntityType EntityType   `gorm:"size:32;index:idx_entity;not null"  json:"entity_type"`
	EntityID   string       `gorm:"size:64;index:idx_entity;not null"  json:"entity_id"`
	Purpose    ImagePurpose `gorm:"size:32;index;not null"             json:"purpose"`

	// 文件名：生成的存储安全名 vs 调用方原始名
	Filename         string `gorm:"size:512"       json:"filename"`
	OriginalFilename string `gorm:"size:512"       json:"original_filename"`

	FileSize    int64  `gorm:"index" json:"file_size"`
	MimeType    string `gorm:"size:128" json:"mime_type"`
	ImageWidth  int    `json:"image_width,omitempty"`
	ImageHeight int    `json:"image_height,omitempty"`

	// 存储位置：StoragePath 指向 original 变体的对象键
	StorageBucket string `gorm:"size:255"  json:"storage_bucket"`
	StoragePath   string `gorm:"size:1024" json:"storage_path"`
	PublicURL     string `gorm:"size:1024" json:"public_url,omitempty"`

	// 展示控制：同一实体下至多一个非删除行 is_primary=true，由 SetPrimary 维护
	IsPrimary    bool `gorm:"index;default:false" json:"is_primary"`
	DisplayOrder int  `gorm:"index;default:0"     json:"display_order"`

	ProcessingStatus ProcessingStatus `gorm:"size:16;index;default:pending" json:"processing_status"`

	AltText string `gorm:"size:512"  json:"alt_text,omitempty"`
	Caption string `gorm:"type:text" json:"caption,omitempty"`

	// VariantsJSON 变体名到 VariantInfo 的 JSON 映射
	VariantsJSON string `gorm:"type:text" json:"-"`
	// MetadataJSON 调用方扩展的开放键值信息
	MetadataJSON string `gorm:"type:text" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名.
func (ImageAsset) TableName() string {
	return "image_assets"
}

// Lifecycle 返回行的生命周期状态；硬删行不会被查询到，调用方拿到的只有前两态.
func (a *ImageAsset) Lifecycle() LifecycleState {
	if a.DeletedAt.Valid {
		return LifecycleSoftDeleted
	}

	return LifecycleActive
}

// Variants 反序列化变体映射；内容为空时返回空 map.
func (a *ImageAsset) Variants() (map[string]VariantInfo, error) {
	out := map[string]VariantInfo{}
	if a.VariantsJSON == "" {
		return out, nil
	}

	if err := sonic.UnmarshalString(a.VariantsJSON, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// SetVariants 序列化变体映射.
func (a *ImageAsset) SetVariants(v map[string]VariantInfo) error {
	s, err := sonic.MarshalString(v)
	if err != nil {
		return err
	}

	a.VariantsJSON = s

	return nil
}

// Metadata 反序列化调用方扩展信息.
func (a *ImageAsset) Metadata() (map[string]string, error) {
	out := map[string]string{}
	if a.MetadataJSON == "" {
		return out, nil
	}

	if err := sonic.UnmarshalString(a.MetadataJSON, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// SetMetadata 序列化调用方扩展信息.
func (a *ImageAsset) SetMetadata(m map[string]string) error {
	if len(m) == 0 {
		a.MetadataJSON = ""

		return nil
	}

	s, err := sonic.MarshalString(m)
	if err != nil {
		return err
	}

	a.MetadataJSON = s

	return nil
}
