package cart

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
)

// GetWishlist retourne la wishlist de l'utilisateur
func GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")

	var items []models.WishlistItem
	database.DB.Preload("Product.Variants").Where("user_id = ?", userID).Order("added_at DESC").Find(&items)

	c.JSON(http.StatusOK, gin.H{"wishlist": items, "count": len(items)})
}

// AddToWishlist ajoute un produit (idempotent grâce à la contrainte unique)
func AddToWishlist(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, "id = ? AND is_active = true", input.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	item := models.WishlistItem{UserID: userID, ProductID: input.ProductID}
	if err := database.DB.Create(&item).Error; err != nil {
		// Déjà présent : on ne renvoie pas d'erreur
		c.JSON(http.StatusOK, gin.H{"message": "Produit déjà dans la wishlist"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Produit ajouté à la wishlist"})
}

// RemoveFromWishlist retire un produit
func RemoveFromWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	result := database.DB.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent de la wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré de la wishlist"})
}

// MoveToCart déplace un produit de la wishlist vers le panier
// (première variante active disponible).
func MoveToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	var item models.WishlistItem
	if err := database.DB.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent de la wishlist"})
		return
	}

	var variant models.ProductVariant
	err := database.DB.Where("product_id = ? AND is_active = true AND stock_quantity > 0", productID).
		Order("price ASC").First(&variant).Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune variante disponible pour ce produit"})
		return
	}

	cart, err := FindOrCreateCart(database.DB, userID, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	var existing models.CartItem
	err = database.DB.Where("cart_id = ? AND variant_id = ?", cart.ID, variant.ID).First(&existing).Error
	if err == nil {
		database.DB.Model(&existing).Update("quantity", existing.Quantity+1)
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		database.DB.Create(&models.CartItem{CartID: cart.ID, VariantID: variant.ID, Quantity: 1})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	database.DB.Delete(&item)

	c.JSON(http.StatusOK, gin.H{"message": "Produit déplacé vers le panier"})
}
