package domain

import "time"

// User is a storefront customer, read-only on the admin side
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:200" json:"name"`
	Email     string    `gorm:"size:200;index" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}
