package models

import "time"

// Cart appartient soit à un utilisateur connecté (UserID), soit à une
// session anonyme (SessionKey). Jamais les deux.
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     *string    `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string    `gorm:"uniqueIndex" json:"-"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem : une ligne par (panier, variante) — contrainte unique composite.
// La quantité est validée contre le stock à l'ajout et revalidée sous verrou
// au checkout ; pas de contrainte base de données sur le stock lui-même.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"uniqueIndex:idx_cart_variant;not null" json:"cart_id"`
	VariantID string    `gorm:"type:uuid;uniqueIndex:idx_cart_variant;not null" json:"variant_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`

	Variant ProductVariant `gorm:"foreignKey:VariantID" json:"variant"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex:idx_wishlist_once;not null" json:"user_id"`
	ProductID string    `gorm:"type:uuid;uniqueIndex:idx_wishlist_once;not null" json:"product_id"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}
