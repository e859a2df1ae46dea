package entity

import "time"

type ClothingItem struct {
	ID          string    `json:"id" firestore:"id"`
	OwnerID     string    `json:"owner_id" firestore:"ownerId"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category" firestore:"category"` // "dress", "suit", "jacket", "accessory", ...
	Size        string    `json:"size" firestore:"size"`
	PricePerDay float64   `json:"price_per_day" firestore:"pricePerDay"`
	Images      []string  `json:"images" firestore:"images"` // ordered storage URLs
	Available   bool      `json:"available" firestore:"available"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
