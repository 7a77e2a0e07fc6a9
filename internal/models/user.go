package models

import "time"

type User struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `gorm:"uniqueIndex:idx_users_email_provider" json:"email"`
	Password   string    `json:"-"`
	Role       string    `gorm:"type:varchar(20);default:'customer'" json:"role,omitempty"` // "customer", "vendor", "admin"
	Provider   string    `gorm:"uniqueIndex:idx_users_email_provider;default:'local'" json:"provider,omitempty"`
	ProviderID string    `json:"-"`
	VendorID   *string   `gorm:"type:uuid" json:"vendor_id,omitempty"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Addresses  []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

// Address : adresse enregistrée par l'utilisateur (modifiable).
// Les commandes gardent leur propre copie figée (OrderAddress).
type Address struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"user_id"`
	FullName   string    `json:"full_name"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	Zone       string    `gorm:"type:varchar(20);default:'domestic'" json:"zone"` // "domestic" ou "international"
	IsDefault  bool      `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
