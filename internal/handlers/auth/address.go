package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
)

// Adresses enregistrées de l'utilisateur. Les commandes gardent leur propre
// copie figée : modifier ici n'affecte jamais une commande passée.

func ListAddresses(c *gin.Context) {
	userID := c.GetString("user_id")

	var addresses []models.Address
	database.DB.Where("user_id = ?", userID).Order("is_default DESC, created_at DESC").Find(&addresses)

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		FullName   string `json:"full_name" binding:"required"`
		Street     string `json:"street" binding:"required"`
		City       string `json:"city" binding:"required"`
		PostalCode string `json:"postal_code" binding:"required"`
		Country    string `json:"country" binding:"required"`
		Phone      string `json:"phone"`
		Zone       string `json:"zone"`
		IsDefault  bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	zone := input.Zone
	if zone != models.ZoneInternational {
		zone = models.ZoneDomestic
	}

	address := models.Address{
		ID:         uuid.NewString(),
		UserID:     userID,
		FullName:   input.FullName,
		Street:     input.Street,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		Phone:      input.Phone,
		Zone:       zone,
		IsDefault:  input.IsDefault,
	}

	if input.IsDefault {
		database.DB.Model(&models.Address{}).Where("user_id = ?", userID).Update("is_default", false)
	}

	if err := database.DB.Create(&address).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de l'adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": address})
}

func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	addressID := c.Param("id")

	var address models.Address
	if err := database.DB.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	var input struct {
		FullName   *string `json:"full_name"`
		Street     *string `json:"street"`
		City       *string `json:"city"`
		PostalCode *string `json:"postal_code"`
		Country    *string `json:"country"`
		Phone      *string `json:"phone"`
		Zone       *string `json:"zone"`
		IsDefault  *bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Street != nil {
		updates["street"] = *input.Street
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.PostalCode != nil {
		updates["postal_code"] = *input.PostalCode
	}
	if input.Country != nil {
		updates["country"] = *input.Country
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Zone != nil && (*input.Zone == models.ZoneDomestic || *input.Zone == models.ZoneInternational) {
		updates["zone"] = *input.Zone
	}
	if input.IsDefault != nil && *input.IsDefault {
		database.DB.Model(&models.Address{}).Where("user_id = ?", userID).Update("is_default", false)
		updates["is_default"] = true
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune mise à jour fournie"})
		return
	}

	if err := database.DB.Model(&address).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}

func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	addressID := c.Param("id")

	result := database.DB.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}
