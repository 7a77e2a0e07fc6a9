package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// ListCategories : arbre plat des catégories (ParentID pour la hiérarchie)
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des catégories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory : création d'une catégorie (admin)
func CreateCategory(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom requis"})
		return
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := database.DB.First(&parent, *req.ParentID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie parente introuvable"})
			return
		}
	}

	category := models.Category{
		Name:     req.Name,
		Slug:     slugify(req.Name),
		ParentID: req.ParentID,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Cette catégorie existe déjà"})
		return
	}

	utils.LogAction(c, "create", "category", category.Slug, nil, category)
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// DeleteCategory : suppression d'une catégorie sans produits ni enfants (admin)
func DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var productCount int64
	database.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount)
	if productCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Des produits utilisent encore cette catégorie"})
		return
	}

	var childCount int64
	database.DB.Model(&models.Category{}).Where("parent_id = ?", id).Count(&childCount)
	if childCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Cette catégorie a des sous-catégories"})
		return
	}

	result := database.DB.Delete(&models.Category{}, "id = ?", id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	utils.LogAction(c, "delete", "category", id, nil, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
