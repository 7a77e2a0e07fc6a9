package catalog

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
)

// CreateReview : avis sur un produit, réservé aux acheteurs livrés.
// Un seul avis par (produit, utilisateur).
func CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note requise"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La note doit être entre 1 et 5"})
		return
	}

	var product models.Product
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	productID := product.ID

	// L'utilisateur doit avoir reçu ce produit dans une commande livrée
	var purchased int64
	database.DB.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN product_variants ON product_variants.id = order_items.variant_id").
		Where("orders.user_id = ? AND orders.status = ? AND product_variants.product_id = ?",
			userID, models.OrderStatusDelivered, productID).
		Count(&purchased)
	if purchased == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Seuls les acheteurs livrés peuvent laisser un avis"})
		return
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			c.JSON(http.StatusConflict, gin.H{"error": "Vous avez déjà laissé un avis sur ce produit"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'enregistrement de l'avis"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListReviews : avis d'un produit avec note moyenne
func ListReviews(c *gin.Context) {
	var product models.Product
	if err := database.DB.Select("id").Where("slug = ?", c.Param("slug")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	productID := product.ID

	var reviews []models.Review
	err := database.DB.Where("product_id = ?", productID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des avis"})
		return
	}

	var average float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"average": average,
		"count":   len(reviews),
	})
}
