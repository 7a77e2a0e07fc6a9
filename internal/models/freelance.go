package models

import "time"

type ProposalStatus string
type ContractStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusDeclined  ProposalStatus = "declined"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"

	ContractStatusActive    ContractStatus = "active"
	ContractStatusDelivered ContractStatus = "delivered"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusDisputed  ContractStatus = "disputed"
)

// Gig : prestation de service proposée par un vendeur.
type Gig struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID     string    `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Title        string    `gorm:"not null" json:"title"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string    `json:"description"`
	Price        float64   `gorm:"not null" json:"price"`
	DeliveryDays int       `gorm:"default:7" json:"delivery_days"`
	CategoryID   *uint     `gorm:"index" json:"category_id,omitempty"`
	ImageURLs    []string  `gorm:"serializer:json" json:"image_urls,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Proposal : demande d'un acheteur sur un gig, avec montant proposé.
// Un seul proposal "pending" par (gig, acheteur).
type Proposal struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	GigID     string         `gorm:"type:uuid;uniqueIndex:idx_gig_buyer;not null" json:"gig_id"`
	BuyerID   string         `gorm:"type:uuid;uniqueIndex:idx_gig_buyer;not null" json:"buyer_id"`
	Message   string         `json:"message"`
	Amount    float64        `gorm:"not null" json:"amount"`
	Status    ProposalStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Contract : né de l'acceptation d'un proposal. Transitions monotones :
// active -> delivered -> completed, ou sortie vers cancelled/disputed.
type Contract struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID       string         `gorm:"type:uuid;uniqueIndex;not null" json:"proposal_id"`
	GigID            string         `gorm:"type:uuid;index;not null" json:"gig_id"`
	VendorID         string         `gorm:"type:uuid;index;not null" json:"vendor_id"`
	BuyerID          string         `gorm:"type:uuid;index;not null" json:"buyer_id"`
	Amount           float64        `gorm:"not null" json:"amount"`
	CommissionRate   float64        `json:"commission_rate"`
	CommissionAmount float64        `json:"commission_amount"`
	NetPayout        float64        `json:"net_payout"`
	Status           ContractStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	PaymentIntentID  string         `json:"payment_intent_id,omitempty"`
	IsFunded         bool           `gorm:"default:false" json:"is_funded"`
	DueAt            time.Time      `json:"due_at"`
	DeliveredAt      *time.Time     `json:"delivered_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
