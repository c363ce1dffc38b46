package models

import "time"

type Chat struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"userId"`
	Query     string     `gorm:"not null" json:"query"`
	Responses []Response `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"responses"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Response is a product suggestion returned by the recommendation
// service and persisted alongside the chat that produced it.
type Response struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID      uint    `gorm:"index;not null" json:"chatId"`
	ProductName string  `json:"productName"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageURL"`
	Price       float64 `json:"price"`
}
