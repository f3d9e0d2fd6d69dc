package model

type Category struct {
	CategoryID   int    `gorm:"primaryKey" json:"category_id"`
	Name         string `gorm:"not null;type:varchar(100);uniqueIndex" json:"name"`
	Description  string `gorm:"type:varchar(500)" json:"description"`
	IconClass    string `gorm:"type:varchar(50)" json:"icon_class"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool   `gorm:"not null" json:"is_active"`
	BaseModel
}

// CategoryWithCount 分類與其上架商品數
type CategoryWithCount struct {
	Category
	ProductCount int64 `json:"product_count"`
}
