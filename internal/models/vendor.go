package models

import "time"

// Zones de livraison supportées (deux zones grossières, tarif plat par zone)
const (
	ZoneDomestic      = "domestic"
	ZoneInternational = "international"
)

// VendorProfile : profil d'un vendeur de la marketplace.
// WalletBalance est un total courant, crédité à la commande (net_payout)
// et débité à l'approbation d'une demande de retrait — toujours sous verrou ligne.
type VendorProfile struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        string    `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	StoreName      string    `gorm:"not null" json:"store_name"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string    `json:"description,omitempty"`
	LogoURL        string    `json:"logo_url,omitempty"`
	CommissionRate float64   `gorm:"default:10" json:"commission_rate"` // % retenu par la plateforme
	WalletBalance  float64   `gorm:"default:0" json:"wallet_balance"`
	IsApproved     bool      `gorm:"default:false" json:"is_approved"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	ShippingRates []VendorShippingRate `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"shipping_rates,omitempty"`
}

// VendorShippingRate : tarif plat d'un vendeur pour une zone,
// avec seuil optionnel de livraison gratuite (0 = désactivé).
type VendorShippingRate struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VendorID      string    `gorm:"type:uuid;uniqueIndex:idx_vendor_zone;not null" json:"vendor_id"`
	Zone          string    `gorm:"type:varchar(20);uniqueIndex:idx_vendor_zone;not null" json:"zone"`
	FlatRate      float64   `json:"flat_rate"`
	FreeThreshold float64   `json:"free_threshold"` // sous-total vendeur à partir duquel la livraison est offerte
	UpdatedAt     time.Time `json:"updated_at"`
}

type PayoutStatus string

const (
	PayoutStatusPending  PayoutStatus = "pending"
	PayoutStatusApproved PayoutStatus = "approved"
	PayoutStatusDeclined PayoutStatus = "declined"
	PayoutStatusPaid     PayoutStatus = "paid"
)

// Payout : demande de retrait d'un vendeur. Le solde n'est débité qu'à
// l'approbation ; une demande en attente engage le montant sans le retirer.
type Payout struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID    string       `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Amount      float64      `gorm:"not null" json:"amount"`
	Status      PayoutStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	IBAN        string       `json:"iban,omitempty"`
	Note        string       `json:"note,omitempty"`
	DecidedBy   string       `json:"decided_by,omitempty"`
	DecidedAt   *time.Time   `json:"decided_at,omitempty"`
	RequestedAt time.Time    `gorm:"autoCreateTime" json:"requested_at"`
}
