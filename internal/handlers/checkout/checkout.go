package checkout

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"louma_back_end/internal/cache"
	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// PlaceOrderInput : tout ce que l'orchestrateur a besoin de savoir.
// AddressID prime sur Address si les deux sont fournis.
type PlaceOrderInput struct {
	UserID     string
	SessionKey string
	Email      string
	AddressID  string
	Address    *AddressInput
	Method     string // "card" ou "cod"
	CouponCode string
}

type AddressInput struct {
	FullName   string `json:"full_name" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
	Zone       string `json:"zone"`
}

// lockForUpdate : verrou ligne SELECT ... FOR UPDATE. SQLite ne connaît pas
// cette clause et sérialise déjà ses écritures au niveau du fichier.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// PlaceOrder exécute le checkout complet dans UNE transaction :
// revalidation du stock sous verrou ligne, découpage par vendeur,
// frais de port par zone, coupon revalidé contre le sous-total vivant,
// instantanés (adresse, prix), décrément du stock, tranches vendeur et
// crédit des wallets. La moindre erreur annule tout.
func PlaceOrder(db *gorm.DB, in PlaceOrderInput) (*models.Order, error) {
	// Panier hors transaction : simple lecture, le contenu sera reverrouillé ligne par ligne
	var cart models.Cart
	var err error
	if in.UserID != "" {
		err = db.Preload("Items").Where("user_id = ?", in.UserID).First(&cart).Error
	} else {
		err = db.Preload("Items").Where("session_key = ?", in.SessionKey).First(&cart).Error
	}
	if err != nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot, err := resolveAddress(db, in)
	if err != nil {
		return nil, err
	}

	var order *models.Order

	err = db.Transaction(func(tx *gorm.DB) error {
		// 1. Verrouiller chaque variante et revalider la quantité demandée
		// contre le stock courant. Les deux checkouts concurrents sur la même
		// variante se sérialisent ici : le second relit le stock décrémenté.
		// Verrous pris en ordre d'identifiant : deux checkouts qui partagent
		// des variantes ne peuvent pas s'interbloquer en se croisant.
		var lines []Line
		variants := make(map[string]*models.ProductVariant)

		for _, item := range sortedForLocking(cart.Items) {
			var variant models.ProductVariant
			if err := lockForUpdate(tx).
				First(&variant, "id = ?", item.VariantID).Error; err != nil {
				return fmt.Errorf("%w: variante %s", ErrInsufficientStock, item.VariantID)
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", variant.ProductID).Error; err != nil {
				return err
			}

			if variant.StockQuantity < item.Quantity {
				return fmt.Errorf("%w: %s (disponible: %d, demandé: %d)",
					ErrInsufficientStock, product.Name, variant.StockQuantity, item.Quantity)
			}

			variants[variant.ID] = &variant
			lines = append(lines, Line{
				VendorID:    product.VendorID,
				VariantID:   variant.ID,
				ProductName: product.Name,
				VariantName: variant.Name,
				SKU:         variant.SKU,
				UnitPrice:   variant.Price,
				Quantity:    item.Quantity,
			})
		}

		subtotal := Subtotal(lines)
		slices := GroupByVendor(lines)

		// 2. Par vendeur : port (zone + seuil gratuit) et commission.
		// Le profil vendeur est verrouillé maintenant : son wallet sera
		// crédité dans cette même transaction. Même discipline d'ordre de
		// verrouillage que pour les variantes.
		SortSlicesByVendor(slices)
		var shippingTotal float64
		for i := range slices {
			var vendor models.VendorProfile
			if err := lockForUpdate(tx).
				First(&vendor, "id = ?", slices[i].VendorID).Error; err != nil {
				return ErrVendorUnavailable
			}
			if !vendor.IsApproved {
				return fmt.Errorf("%w: %s", ErrVendorUnavailable, vendor.StoreName)
			}

			var rate *models.VendorShippingRate
			var r models.VendorShippingRate
			if err := tx.Where("vendor_id = ? AND zone = ?", vendor.ID, snapshot.Zone).
				First(&r).Error; err == nil {
				rate = &r
			}

			slices[i].ShippingCharged = ComputeShipping(rate, snapshot.Zone, slices[i].Subtotal)
			ComputeCommission(&slices[i], vendor.CommissionRate)
			shippingTotal = Round2(shippingTotal + slices[i].ShippingCharged)
		}

		// 3. Coupon : revalidé contre le sous-total vivant, jamais une valeur cachée
		var discount float64
		var coupon models.Coupon
		if in.CouponCode != "" {
			if err := tx.Where("code = ?", in.CouponCode).First(&coupon).Error; err != nil {
				return fmt.Errorf("%w: code inconnu", ErrInvalidCoupon)
			}

			var userUsage int64
			if in.UserID != "" {
				tx.Model(&models.CouponUsage{}).
					Where("coupon_id = ? AND user_id = ?", coupon.ID, in.UserID).
					Count(&userUsage)
			}

			validation := EvaluateCoupon(coupon, subtotal, int(userUsage), time.Now())
			if !validation.IsValid {
				return fmt.Errorf("%w: %s", ErrInvalidCoupon, validation.ErrorMessage)
			}
			discount = validation.Discount
		}

		grandTotal := Round2(subtotal + shippingTotal - discount)
		if grandTotal < 0 {
			grandTotal = 0
		}

		// 4. Instantané de commande : adresse copiée, prix figés
		now := time.Now()
		newOrder := models.Order{
			ID:             uuid.NewString(),
			Number:         GenerateOrderNumber(now),
			Email:          in.Email,
			Subtotal:       subtotal,
			ShippingCost:   shippingTotal,
			DiscountAmount: discount,
			CouponCode:     in.CouponCode,
			GrandTotal:     grandTotal,
			Status:         models.OrderStatusProcessing,
			PaymentStatus:  models.PaymentStatusPending,
		}
		// user_id doit rester NULL pour un invité : la colonne est de type
		// uuid, une chaîne vide serait rejetée par PostgreSQL
		if in.UserID != "" {
			newOrder.UserID = &in.UserID
		}
		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}

		snapshot.OrderID = newOrder.ID
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}

		payment := models.Payment{
			ID:      uuid.NewString(),
			OrderID: newOrder.ID,
			Method:  in.Method,
			Amount:  grandTotal,
			Status:  models.PaymentStatusPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// 5. Lignes + décrément du stock, même transaction
		for _, l := range lines {
			orderItem := models.OrderItem{
				OrderID:     newOrder.ID,
				VendorID:    l.VendorID,
				VariantID:   l.VariantID,
				ProductName: l.ProductName,
				VariantName: l.VariantName,
				SKU:         l.SKU,
				UnitPrice:   l.UnitPrice,
				Quantity:    l.Quantity,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			if err := tx.Model(variants[l.VariantID]).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", l.Quantity)).Error; err != nil {
				return err
			}
		}

		// 6. Tranches vendeur + crédit wallet (une seule fois par vendeur)
		for _, s := range slices {
			vendorOrder := models.VendorOrder{
				ID:               uuid.NewString(),
				OrderID:          newOrder.ID,
				VendorID:         s.VendorID,
				Subtotal:         s.Subtotal,
				ShippingCharged:  s.ShippingCharged,
				CommissionRate:   s.CommissionRate,
				CommissionAmount: s.CommissionAmount,
				NetPayout:        s.NetPayout,
				Status:           models.OrderStatusProcessing,
			}
			if err := tx.Create(&vendorOrder).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.VendorProfile{}).Where("id = ?", s.VendorID).
				UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", s.NetPayout)).Error; err != nil {
				return err
			}
		}

		// 7. Consommation du coupon
		if in.CouponCode != "" && coupon.ID != "" {
			usage := models.CouponUsage{
				CouponID: coupon.ID,
				OrderID:  newOrder.ID,
			}
			if in.UserID != "" {
				usage.UserID = &in.UserID
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}
			if err := tx.Model(&coupon).
				UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error; err != nil {
				return err
			}
		}

		// 8. Vider le panier : supprimé pour un invité, vidé pour un inscrit
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if in.UserID == "" {
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		}

		order = &newOrder
		return nil
	})

	if err != nil {
		return nil, err
	}
	return order, nil
}

// resolveAddress construit l'instantané d'adresse : copie d'une adresse
// enregistrée (qui doit appartenir à l'utilisateur), ou adresse saisie inline.
func resolveAddress(db *gorm.DB, in PlaceOrderInput) (*models.OrderAddress, error) {
	if in.AddressID != "" {
		var saved models.Address
		if err := db.Where("id = ? AND user_id = ?", in.AddressID, in.UserID).First(&saved).Error; err != nil {
			return nil, ErrAddressNotFound
		}
		return &models.OrderAddress{
			FullName:   saved.FullName,
			Street:     saved.Street,
			City:       saved.City,
			PostalCode: saved.PostalCode,
			Country:    saved.Country,
			Phone:      saved.Phone,
			Zone:       saved.Zone,
		}, nil
	}

	if in.Address == nil {
		return nil, ErrAddressNotFound
	}

	zone := in.Address.Zone
	if zone != models.ZoneInternational {
		zone = models.ZoneDomestic
	}

	return &models.OrderAddress{
		FullName:   in.Address.FullName,
		Street:     in.Address.Street,
		City:       in.Address.City,
		PostalCode: in.Address.PostalCode,
		Country:    in.Address.Country,
		Phone:      in.Address.Phone,
		Zone:       zone,
	}, nil
}

// Checkout : endpoint HTTP du checkout. Le coupon actif vient de la session
// Redis, jamais du body — le client ne choisit pas sa réduction.
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionKey := c.GetString("session_key")
	if userID == "" && sessionKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	var req struct {
		AddressID string        `json:"address_id"`
		Address   *AddressInput `json:"address"`
		Method    string        `json:"payment_method" binding:"required"`
		Email     string        `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.Method != "card" && req.Method != "cod" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Moyen de paiement invalide"})
		return
	}

	email := c.GetString("email")
	if email == "" {
		email = req.Email
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}

	principal := userID
	if principal == "" {
		principal = sessionKey
	}

	in := PlaceOrderInput{
		UserID:     userID,
		SessionKey: sessionKey,
		Email:      email,
		AddressID:  req.AddressID,
		Address:    req.Address,
		Method:     req.Method,
		CouponCode: cache.GetActiveCoupon(principal),
	}

	order, err := PlaceOrder(database.DB, in)
	if err != nil {
		utils.LogFailedAction(c, "checkout", "order", "", err.Error())
		switch {
		case errors.Is(err, ErrEmptyCart),
			errors.Is(err, ErrInsufficientStock),
			errors.Is(err, ErrInvalidCoupon),
			errors.Is(err, ErrAddressNotFound),
			errors.Is(err, ErrVendorUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("❌ Erreur checkout: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du checkout"})
		}
		return
	}

	// Session nettoyée après commit
	cache.ClearActiveCoupon(principal)
	cache.InvalidateCartCount(principal)
	cache.PublishCartEvent(principal, "cleared")
	utils.LogAction(c, "checkout", "order", order.ID, nil, gin.H{"number": order.Number, "total": order.GrandTotal})

	log.Printf("💳 Commande créée: %s (%.2f€) pour %s", order.Number, order.GrandTotal, email)

	if req.Method == "card" {
		clientSecret, err := CreateOrderPaymentIntent(order)
		if err != nil {
			// La commande existe, le paiement pourra être retenté
			log.Printf("❌ Erreur Stripe pour %s: %v", order.Number, err)
			c.JSON(http.StatusOK, gin.H{
				"order_number":  order.Number,
				"payment_error": "Paiement indisponible, réessayez depuis votre commande",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_number":  order.Number,
			"client_secret": clientSecret,
			"amount":        order.GrandTotal,
			"currency":      "eur",
		})
		return
	}

	// Paiement à la livraison : confirmation immédiate
	var full models.Order
	database.DB.Preload("Items").First(&full, "id = ?", order.ID)
	utils.NotifyOrderConfirmed(full, email)

	c.JSON(http.StatusOK, gin.H{
		"order_number": order.Number,
		"amount":       order.GrandTotal,
		"currency":     "eur",
	})
}

// Confirmation : vue de confirmation par numéro de commande lisible
func Confirmation(c *gin.Context) {
	number := c.Param("number")

	var order models.Order
	err := database.DB.Preload("Items").Preload("Address").Preload("Payment").
		Where("number = ?", number).First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	// Une commande rattachée à un compte n'est visible que par ce compte
	if order.BuyerID() != "" && order.BuyerID() != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
