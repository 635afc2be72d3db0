package models

import "time"

type BeatOrderStatus string

// StatusPending is the only status a beat order is ever created with.
const StatusPending BeatOrderStatus = "pending"

type Beat struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Price        int    `json:"price"`
	PreviewURL   string `json:"preview_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type BeatOrder struct {
	ID           string          `json:"id"`
	BeatID       string          `json:"beatId"`
	BuyerName    string          `json:"buyerName"`
	BuyerEmail   string          `json:"buyerEmail"`
	BuyerPhone   string          `json:"buyerPhone"`
	PaymentSSURL *string         `json:"paymentSsUrl"`
	Status       BeatOrderStatus `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}
