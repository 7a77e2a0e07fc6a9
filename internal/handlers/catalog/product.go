package catalog

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/services"
	"louma_back_end/internal/utils"
)

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// uniqueSlug suffixe le slug si déjà pris
func uniqueSlug(base string) string {
	var existing models.Product
	if err := database.DB.Where("slug = ?", base).First(&existing).Error; err != nil {
		return base
	}
	return base + "-" + strings.ToLower(uuid.NewString()[:6])
}

// CreateProduct : création d'un produit avec ses variantes (vendeur)
func CreateProduct(c *gin.Context) {
	vendorID := c.GetString("vendor_id")

	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		CategoryID  *uint    `json:"category_id"`
		Tags        []string `json:"tags"`
		Variants    []struct {
			SKU           string  `json:"sku" binding:"required"`
			Name          string  `json:"name"`
			Price         float64 `json:"price" binding:"required"`
			StockQuantity int     `json:"stock_quantity"`
			Weight        float64 `json:"weight"`
		} `json:"variants" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	for _, v := range req.Variants {
		if v.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
			return
		}
		if v.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
			return
		}
	}

	product := models.Product{
		ID:          uuid.NewString(),
		VendorID:    vendorID,
		Name:        req.Name,
		Slug:        uniqueSlug(slugify(req.Name)),
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	}
	for _, v := range req.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			ID:            uuid.NewString(),
			SKU:           v.SKU,
			Name:          v.Name,
			Price:         v.Price,
			StockQuantity: v.StockQuantity,
			Weight:        v.Weight,
			IsActive:      true,
		})
	}

	if err := database.DB.Create(&product).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			c.JSON(http.StatusConflict, gin.H{"error": "SKU déjà utilisé"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du produit"})
		return
	}

	services.IndexProduct(product)
	utils.LogAction(c, "create", "product", product.ID, nil, gin.H{"name": product.Name, "slug": product.Slug})
	log.Printf("✅ Produit créé: %s (%s)", product.Name, product.Slug)
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// ListProducts : catalogue public paginé, filtrable par catégorie
func ListProducts(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		fmt.Sscanf(raw, "%d", &page)
		if page < 1 {
			page = 1
		}
	}
	const pageSize = 24

	q := database.DB.Preload("Variants", "is_active = ?", true).
		Where("is_active = ?", true)

	if cat := c.Query("category_id"); cat != "" {
		q = q.Where("category_id = ?", cat)
	}
	if vendor := c.Query("vendor_id"); vendor != "" {
		q = q.Where("vendor_id = ?", vendor)
	}

	var total int64
	q.Model(&models.Product{}).Count(&total)

	var products []models.Product
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"page":     page,
		"total":    total,
	})
}

// GetProduct : fiche produit publique par slug
func GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	var product models.Product
	err := database.DB.Preload("Variants", "is_active = ?", true).
		Preload("Reviews").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// loadOwnProduct charge un produit appartenant au vendeur connecté
func loadOwnProduct(c *gin.Context, id string) (*models.Product, bool) {
	var product models.Product
	err := database.DB.Preload("Variants").
		Where("id = ? AND vendor_id = ?", id, c.GetString("vendor_id")).
		First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return nil, false
	}
	return &product, true
}

// UpdateProduct : mise à jour partielle d'un produit (vendeur propriétaire)
func UpdateProduct(c *gin.Context) {
	product, ok := loadOwnProduct(c, c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		Name              *string   `json:"name"`
		Description       *string   `json:"description"`
		CategoryID        *uint     `json:"category_id"`
		Tags              *[]string `json:"tags"`
		LowStockThreshold *int      `json:"low_stock_threshold"`
		IsActive          *bool     `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 && req.Tags == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune modification fournie"})
		return
	}

	if req.Tags != nil {
		product.Tags = *req.Tags
		updates["tags"] = product.Tags
	}

	if err := database.DB.Model(product).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	if req.IsActive != nil && !*req.IsActive {
		services.DeleteProductIndex(product.ID)
	} else {
		services.IndexProduct(*product)
	}

	utils.LogAction(c, "update", "product", product.ID, nil, updates)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct désactive un produit. Jamais de suppression physique :
// les commandes passées référencent ses variantes.
func DeleteProduct(c *gin.Context) {
	product, ok := loadOwnProduct(c, c.Param("id"))
	if !ok {
		return
	}

	if err := database.DB.Model(product).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la désactivation"})
		return
	}

	services.DeleteProductIndex(product.ID)
	utils.LogAction(c, "deactivate", "product", product.ID, nil, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Produit désactivé"})
}

// RestockVariant : réécriture du stock d'une variante par son vendeur
func RestockVariant(c *gin.Context) {
	product, ok := loadOwnProduct(c, c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		VariantID     string `json:"variant_id" binding:"required"`
		StockQuantity int    `json:"stock_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if req.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
		return
	}

	var found bool
	for _, v := range product.Variants {
		if v.ID == req.VariantID {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}

	err := database.DB.Model(&models.ProductVariant{}).
		Where("id = ?", req.VariantID).
		Update("stock_quantity", req.StockQuantity).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du réassort"})
		return
	}

	log.Printf("📦 Réassort: variante %s → %d", req.VariantID, req.StockQuantity)
	c.JSON(http.StatusOK, gin.H{"variant_id": req.VariantID, "stock_quantity": req.StockQuantity})
}

// UploadProductImage : image produit vers MinIO
func UploadProductImage(c *gin.Context) {
	product, ok := loadOwnProduct(c, c.Param("id"))
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier requis"})
		return
	}

	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.NewString()[:8], ext)
	url, err := services.UploadImage(objectName, file)
	if err != nil {
		log.Println("❌ Erreur upload MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload"})
		return
	}

	product.ImageURLs = append(product.ImageURLs, url)
	if err := database.DB.Model(product).Update("image_urls", product.ImageURLs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url, "image_urls": product.ImageURLs})
}
