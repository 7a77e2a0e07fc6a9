package models

import "time"

type Product struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID          string    `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Name              string    `gorm:"not null" json:"name"`
	Slug              string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description       string    `json:"description"`
	CategoryID        *uint     `gorm:"index" json:"category_id,omitempty"`
	ImageURLs         []string  `gorm:"serializer:json" json:"image_urls,omitempty"`
	Tags              []string  `gorm:"serializer:json" json:"tags,omitempty"`
	LowStockThreshold int       `gorm:"default:5" json:"low_stock_threshold"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Reviews  []Review         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// ProductVariant porte le compteur de stock. StockQuantity n'est décrémenté
// que par le checkout (sous verrou ligne) et réécrit par le réassort vendeur.
type ProductVariant struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     string    `gorm:"type:uuid;index;not null" json:"product_id"`
	SKU           string    `gorm:"uniqueIndex;not null" json:"sku"`
	Name          string    `json:"name"` // ex: "Taille M / Bleu"
	Price         float64   `gorm:"not null" json:"price"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	Weight        float64   `json:"weight,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID string    `gorm:"type:uuid;uniqueIndex:idx_review_once;not null" json:"product_id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex:idx_review_once;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1 à 5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
