package freelance

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

func gigSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")

	var existing models.Gig
	if err := database.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
		slug = slug + "-" + strings.ToLower(uuid.NewString()[:6])
	}
	return slug
}

// CreateGig : publication d'une prestation (vendeur)
func CreateGig(c *gin.Context) {
	vendorID := c.GetString("vendor_id")

	var req struct {
		Title        string  `json:"title" binding:"required"`
		Description  string  `json:"description"`
		Price        float64 `json:"price" binding:"required"`
		DeliveryDays int     `json:"delivery_days"`
		CategoryID   *uint   `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
		return
	}
	if req.DeliveryDays <= 0 {
		req.DeliveryDays = 7
	}

	gig := models.Gig{
		ID:           uuid.NewString(),
		VendorID:     vendorID,
		Title:        req.Title,
		Slug:         gigSlug(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		CategoryID:   req.CategoryID,
		IsActive:     true,
	}

	if err := database.DB.Create(&gig).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la prestation"})
		return
	}

	services.IndexGig(gig)
	utils.LogAction(c, "create", "gig", gig.ID, nil, gin.H{"title": gig.Title})
	log.Printf("✅ Prestation créée: %s (%s)", gig.Title, gig.Slug)
	c.JSON(http.StatusCreated, gin.H{"gig": gig})
}

// ListGigs : catalogue public des prestations
func ListGigs(c *gin.Context) {
	q := database.DB.Where("is_active = ?", true)
	if cat := c.Query("category_id"); cat != "" {
		q = q.Where("category_id = ?", cat)
	}
	if vendor := c.Query("vendor_id"); vendor != "" {
		q = q.Where("vendor_id = ?", vendor)
	}

	var gigs []models.Gig
	if err := q.Order("created_at DESC").Limit(50).Find(&gigs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des prestations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// GetGig : fiche publique d'une prestation par slug
func GetGig(c *gin.Context) {
	var gig models.Gig
	err := database.DB.Where("slug = ? AND is_active = ?", c.Param("slug"), true).First(&gig).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prestation introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gig": gig})
}

// UpdateGig : mise à jour partielle (vendeur propriétaire)
func UpdateGig(c *gin.Context) {
	var gig models.Gig
	err := database.DB.Where("id = ? AND vendor_id = ?", c.Param("id"), c.GetString("vendor_id")).
		First(&gig).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prestation introuvable"})
		return
	}

	var req struct {
		Title        *string  `json:"title"`
		Description  *string  `json:"description"`
		Price        *float64 `json:"price"`
		DeliveryDays *int     `json:"delivery_days"`
		IsActive     *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil && *req.Title != "" {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
			return
		}
		updates["price"] = *req.Price
	}
	if req.DeliveryDays != nil && *req.DeliveryDays > 0 {
		updates["delivery_days"] = *req.DeliveryDays
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune modification fournie"})
		return
	}

	if err := database.DB.Model(&gig).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	services.IndexGig(gig)
	c.JSON(http.StatusOK, gin.H{"gig": gig})
}

// UploadGigImage : image de prestation vers MinIO
func UploadGigImage(c *gin.Context) {
	var gig models.Gig
	err := database.DB.Where("id = ? AND vendor_id = ?", c.Param("id"), c.GetString("vendor_id")).
		First(&gig).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prestation introuvable"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier requis"})
		return
	}

	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("gigs/%s/%s%s", gig.ID, uuid.NewString()[:8], ext)
	url, err := services.UploadImage(objectName, file)
	if err != nil {
		log.Println("❌ Erreur upload MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload"})
		return
	}

	gig.ImageURLs = append(gig.ImageURLs, url)
	if err := database.DB.Model(&gig).Update("image_urls", gig.ImageURLs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url, "image_urls": gig.ImageURLs})
}
