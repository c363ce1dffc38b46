package models

import "time"

type CartItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_product;not null" json:"userId"`
	ProductName string    `gorm:"uniqueIndex:idx_user_product;not null" json:"productName"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	ImageURL    string    `json:"imageURL"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
