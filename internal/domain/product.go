package domain

import "time"

// Product is a catalog item managed through the admin backend
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name        string    `gorm:"uniqueIndex;size:200" json:"name" form:"name"`
	Price       float64   `json:"price" form:"price"` // price in main currency units
	Category    string    `gorm:"size:100;index" json:"category" form:"category"`
	Description string    `gorm:"type:text" json:"description" form:"description"`
	Image       string    `gorm:"size:1024" json:"image"` // image reference: local filename or https URL
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
