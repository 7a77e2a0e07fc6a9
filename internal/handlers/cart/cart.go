package cart

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"louma_back_end/internal/cache"
	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
)

// Le panier vit en base (une ligne par variante, contrainte unique).
// Un principal = user_id connecté OU session_key invité, jamais les deux.

func principalFrom(c *gin.Context) (userID, sessionKey string, ok bool) {
	userID = c.GetString("user_id")
	sessionKey = c.GetString("session_key")
	return userID, sessionKey, userID != "" || sessionKey != ""
}

func principalKey(userID, sessionKey string) string {
	if userID != "" {
		return userID
	}
	return sessionKey
}

// FindOrCreateCart retourne le panier du principal, en le créant au besoin
func FindOrCreateCart(db *gorm.DB, userID, sessionKey string) (*models.Cart, error) {
	var cart models.Cart
	var err error

	if userID != "" {
		err = db.Preload("Items.Variant").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: &userID}
			err = db.Create(&cart).Error
		}
	} else {
		err = db.Preload("Items.Variant").Where("session_key = ?", sessionKey).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{SessionKey: &sessionKey}
			err = db.Create(&cart).Error
		}
	}

	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// MergeGuestCart déverse le panier invité dans le panier de l'utilisateur
// au moment du login, puis supprime le panier invité.
func MergeGuestCart(db *gorm.DB, sessionKey, userID string) error {
	var guest models.Cart
	if err := db.Preload("Items").Where("session_key = ?", sessionKey).First(&guest).Error; err != nil {
		return err
	}

	userCart, err := FindOrCreateCart(db, userID, "")
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range guest.Items {
			var existing models.CartItem
			err := tx.Where("cart_id = ? AND variant_id = ?", userCart.ID, item.VariantID).First(&existing).Error
			if err == nil {
				// Ligne déjà présente : on additionne les quantités
				if err := tx.Model(&existing).Update("quantity", existing.Quantity+item.Quantity).Error; err != nil {
					return err
				}
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			newItem := models.CartItem{
				CartID:    userCart.ID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&newItem).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&guest).Error; err != nil {
			return err
		}

		log.Printf("🛒 Panier invité fusionné (%d lignes) → user %s", len(guest.Items), userID)
		cache.InvalidateCartCount(userID)
		cache.PublishCartEvent(userID, "updated")
		return nil
	})
}

func cartTotals(cart *models.Cart) (float64, int) {
	var total float64
	var count int
	for _, item := range cart.Items {
		total += item.Variant.Price * float64(item.Quantity)
		count += item.Quantity
	}
	return total, count
}

// GetCart retourne le panier courant avec totaux
func GetCart(c *gin.Context) {
	userID, sessionKey, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	cart, err := FindOrCreateCart(database.DB, userID, sessionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	total, count := cartTotals(cart)
	cache.SetCartCount(principalKey(userID, sessionKey), count)

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"total": total,
		"count": count,
	})
}

// AddItem ajoute une variante au panier (ou augmente la quantité de la ligne
// existante). La quantité demandée est confrontée au stock courant — garde
// opportuniste : le checkout revalidera sous verrou.
func AddItem(c *gin.Context) {
	userID, sessionKey, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	var input struct {
		VariantID string `json:"variant_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	var variant models.ProductVariant
	if err := database.DB.First(&variant, "id = ? AND is_active = true", input.VariantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}

	cart, err := FindOrCreateCart(database.DB, userID, sessionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	var existing models.CartItem
	err = database.DB.Where("cart_id = ? AND variant_id = ?", cart.ID, input.VariantID).First(&existing).Error

	requested := input.Quantity
	if err == nil {
		requested += existing.Quantity
	}

	if requested > variant.StockQuantity {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Stock insuffisant",
			"available": variant.StockQuantity,
			"requested": requested,
		})
		return
	}

	if err == nil {
		database.DB.Model(&existing).Update("quantity", requested)
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		item := models.CartItem{
			CartID:    cart.ID,
			VariantID: input.VariantID,
			Quantity:  input.Quantity,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout au panier"})
			return
		}
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	principal := principalKey(userID, sessionKey)
	cache.InvalidateCartCount(principal)
	cache.PublishCartEvent(principal, "updated")

	c.JSON(http.StatusOK, gin.H{"message": "Article ajouté au panier"})
}

// UpdateItem change la quantité d'une ligne (0 = suppression)
func UpdateItem(c *gin.Context) {
	userID, sessionKey, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	var input struct {
		VariantID string `json:"variant_id" binding:"required"`
		Quantity  *int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	cart, err := FindOrCreateCart(database.DB, userID, sessionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	var item models.CartItem
	if err := database.DB.Where("cart_id = ? AND variant_id = ?", cart.ID, input.VariantID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article absent du panier"})
		return
	}

	if *input.Quantity <= 0 {
		database.DB.Delete(&item)
	} else {
		var variant models.ProductVariant
		if err := database.DB.First(&variant, "id = ?", input.VariantID).Error; err == nil {
			if *input.Quantity > variant.StockQuantity {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "Stock insuffisant",
					"available": variant.StockQuantity,
				})
				return
			}
		}
		database.DB.Model(&item).Update("quantity", *input.Quantity)
	}

	principal := principalKey(userID, sessionKey)
	cache.InvalidateCartCount(principal)
	cache.PublishCartEvent(principal, "updated")

	c.JSON(http.StatusOK, gin.H{"message": "Panier mis à jour"})
}

// RemoveItem retire une ligne du panier
func RemoveItem(c *gin.Context) {
	userID, sessionKey, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	cart, err := FindOrCreateCart(database.DB, userID, sessionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	variantID := c.Param("variantId")
	result := database.DB.Where("cart_id = ? AND variant_id = ?", cart.ID, variantID).Delete(&models.CartItem{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article absent du panier"})
		return
	}

	principal := principalKey(userID, sessionKey)
	cache.InvalidateCartCount(principal)
	cache.PublishCartEvent(principal, "updated")

	c.JSON(http.StatusOK, gin.H{"message": "Article retiré du panier"})
}

// ClearCart vide le panier
func ClearCart(c *gin.Context) {
	userID, sessionKey, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	cart, err := FindOrCreateCart(database.DB, userID, sessionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	database.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})

	principal := principalKey(userID, sessionKey)
	cache.InvalidateCartCount(principal)
	cache.PublishCartEvent(principal, "cleared")

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
