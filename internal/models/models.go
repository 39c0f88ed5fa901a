package models

import (
	"time"
)

const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusRejected = "rejected"
)

// User is keyed by the external chat identity. The terms flag is set once
// and never cleared.
type User struct {
	ID            int64     `gorm:"primaryKey"               json:"id"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	AgreedToTerms bool      `gorm:"default:false"            json:"agreed_to_terms"`
	RegisteredAt  time.Time `gorm:"autoCreateTime"           json:"registered_at"`
}

type City struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

// Product belongs to exactly one city. The same product offered in several
// cities is stored as distinct rows sharing a name.
type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	CityID      uint    `gorm:"index;not null"            json:"city_id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null;check:price >= 0" json:"price"`
	Photo       string  `json:"photo"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    int64     `gorm:"index;not null"              json:"user_id"`
	ProductID uint      `gorm:"not null"                    json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"  json:"quantity"`
	AddedAt   time.Time `gorm:"autoCreateTime"              json:"added_at"`
}

// Order holds one row per unit of quantity for cart checkouts. ProductID is
// nullable so a row survives deletion of its product.
type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index;not null"           json:"user_id"`
	ProductID *uint     `json:"product_id"`
	Phone     string    `json:"phone"`
	Area      string    `json:"area"`
	Comment   string    `json:"comment"`
	Paid      bool      `gorm:"default:false"            json:"paid"`
	Status    string    `gorm:"default:pending"          json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime"           json:"created_at"`
}

type TermsContent struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
