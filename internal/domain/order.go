package domain

import "time"

// Order status values as written by the storefront checkout flow.
// Orders are created and transitioned outside the admin backend; the
// admin side only reads them.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID        int64       `gorm:"primaryKey" json:"id,string"`
	UserID    int64       `gorm:"index" json:"user_id,string"`
	Status    string      `gorm:"size:32;index" json:"status"`
	Total     float64     `json:"total"`
	User      User        `gorm:"foreignKey:UserID" json:"user"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item snapshot taken at checkout time. Name, image
// and price are copied from the product so later catalog edits do not
// rewrite order history.
type OrderItem struct {
	ID        int64   `gorm:"primaryKey" json:"id,string"`
	OrderID   int64   `gorm:"index" json:"order_id,string"`
	ProductID int64   `gorm:"index" json:"product_id,string"`
	Name      string  `gorm:"size:200" json:"name"`
	Image     string  `gorm:"size:1024" json:"image"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
