package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // commande créée, paiement en attente
	OrderStatusProcessing OrderStatus = "processing" // payée, en préparation
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusDisputed   OrderStatus = "disputed"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order : instantané immuable d'un achat. Les montants et l'adresse sont
// copiés à la création ; seuls Status/PaymentStatus évoluent ensuite.
type Order struct {
	ID             string        `gorm:"type:uuid;primaryKey" json:"id"`
	Number         string        `gorm:"uniqueIndex;not null" json:"number"` // lisible, ex: LM-20250908-4F2A1C
	UserID         *string       `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil pour une commande invité
	Email          string        `gorm:"index;not null" json:"email"`
	Subtotal       float64       `json:"subtotal"`
	ShippingCost   float64       `json:"shipping_cost"`
	DiscountAmount float64       `json:"discount_amount"`
	CouponCode     string        `json:"coupon_code,omitempty"`
	GrandTotal     float64       `json:"grand_total"`
	Status         OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Items        []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	VendorOrders []VendorOrder `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"vendor_orders,omitempty"`
	Address      *OrderAddress `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	Payment      *Payment      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

// BuyerID : identifiant de l'acheteur, ou "" pour une commande invité
func (o *Order) BuyerID() string {
	if o.UserID == nil {
		return ""
	}
	return *o.UserID
}

// OrderItem fige le prix au moment de l'achat : un changement de prix
// catalogue ne modifie jamais une commande passée.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     string  `gorm:"type:uuid;index;not null" json:"order_id"`
	VendorID    string  `gorm:"type:uuid;index;not null" json:"vendor_id"`
	VariantID   string  `gorm:"type:uuid;not null" json:"variant_id"`
	ProductName string  `json:"product_name"`
	VariantName string  `json:"variant_name,omitempty"`
	SKU         string  `json:"sku"`
	UnitPrice   float64 `json:"unit_price"` // prix à l'achat
	Quantity    int     `json:"quantity"`
}

// VendorOrder : tranche financière d'une commande pour un vendeur.
// net_payout = subtotal + shipping_charged - commission_amount.
type VendorOrder struct {
	ID               string      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          string      `gorm:"type:uuid;uniqueIndex:idx_order_vendor;not null" json:"order_id"`
	VendorID         string      `gorm:"type:uuid;uniqueIndex:idx_order_vendor;index;not null" json:"vendor_id"`
	Subtotal         float64     `json:"subtotal"`
	ShippingCharged  float64     `json:"shipping_charged"`
	CommissionRate   float64     `json:"commission_rate"`
	CommissionAmount float64     `json:"commission_amount"`
	NetPayout        float64     `json:"net_payout"`
	Status           OrderStatus `gorm:"type:varchar(20);default:'processing'" json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
}

// OrderAddress : copie figée de l'adresse de livraison. Modifier une adresse
// enregistrée ne change jamais une commande passée.
type OrderAddress struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	OrderID    string `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	Zone       string `json:"zone"`
}

type Payment struct {
	ID              string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         string        `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Method          string        `gorm:"type:varchar(20)" json:"method"` // "card", "cod"
	PaymentIntentID string        `gorm:"index" json:"payment_intent_id,omitempty"`
	Amount          float64       `json:"amount"`
	Status          PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
