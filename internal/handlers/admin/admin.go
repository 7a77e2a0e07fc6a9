package admin

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// ListPendingVendors : candidatures vendeur en attente
func ListPendingVendors(c *gin.Context) {
	var vendors []models.VendorProfile
	err := database.DB.Where("is_approved = ?", false).
		Order("created_at ASC").Find(&vendors).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// ApproveVendor approuve une boutique : le propriétaire devient vendeur
// et son JWT portera vendor_id à la prochaine connexion.
func ApproveVendor(c *gin.Context) {
	var profile models.VendorProfile
	if err := database.DB.First(&profile, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil vendeur introuvable"})
		return
	}
	if profile.IsApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette boutique est déjà approuvée"})
		return
	}

	if err := database.DB.Model(&profile).Update("is_approved", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'approbation"})
		return
	}
	if err := database.DB.Model(&models.User{}).Where("id = ?", profile.OwnerID).
		Updates(map[string]interface{}{"role": "vendor", "vendor_id": profile.ID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du compte"})
		return
	}

	utils.LogAction(c, "approve", "vendor", profile.ID, nil, gin.H{"store_name": profile.StoreName})
	log.Printf("✅ Boutique approuvée: %s (%s)", profile.StoreName, profile.Slug)
	c.JSON(http.StatusOK, gin.H{"vendor": profile})
}

// RejectVendor : refus d'une candidature, le profil est supprimé
func RejectVendor(c *gin.Context) {
	var profile models.VendorProfile
	if err := database.DB.First(&profile, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil vendeur introuvable"})
		return
	}
	if profile.IsApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Une boutique approuvée ne peut pas être rejetée"})
		return
	}

	if err := database.DB.Delete(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du rejet"})
		return
	}

	utils.LogAction(c, "reject", "vendor", profile.ID, nil, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Candidature rejetée"})
}

// SetCommissionRate : taux de commission d'un vendeur (admin)
func SetCommissionRate(c *gin.Context) {
	var req struct {
		CommissionRate float64 `json:"commission_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if req.CommissionRate < 0 || req.CommissionRate > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le taux doit être entre 0 et 100"})
		return
	}

	var profile models.VendorProfile
	if err := database.DB.First(&profile, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil vendeur introuvable"})
		return
	}

	old := profile.CommissionRate
	if err := database.DB.Model(&profile).Update("commission_rate", req.CommissionRate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	utils.LogAction(c, "set_commission", "vendor", profile.ID,
		gin.H{"commission_rate": old}, gin.H{"commission_rate": req.CommissionRate})
	c.JSON(http.StatusOK, gin.H{"vendor": profile})
}

// ListUsers : annuaire des comptes (admin)
func ListUsers(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	const pageSize = 50

	q := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "page": page, "total": total})
}

// SetUserActive : activation / désactivation d'un compte (admin)
func SetUserActive(c *gin.Context) {
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", c.Param("id")).
		Update("is_active", req.IsActive)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	utils.LogAction(c, "set_active", "user", c.Param("id"), nil, gin.H{"is_active": req.IsActive})
	c.JSON(http.StatusOK, gin.H{"user_id": c.Param("id"), "is_active": req.IsActive})
}

// ListAuditLogs : dernières traces d'audit depuis ScyllaDB
func ListAuditLogs(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	session, err := database.GetAuditSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Audit indisponible"})
		return
	}

	iter := session.Query(`
		SELECT id, user_id, user_email, action, resource, resource_id,
		       old_value, new_value, ip_address, user_agent, success,
		       error_msg, timestamp
		FROM audit_logs LIMIT ?
	`, limit).Iter()

	logs := []models.AuditLog{}
	var entry models.AuditLog
	for iter.Scan(&entry.ID, &entry.UserID, &entry.UserEmail, &entry.Action,
		&entry.Resource, &entry.ResourceID, &entry.OldValue, &entry.NewValue,
		&entry.IPAddress, &entry.UserAgent, &entry.Success, &entry.ErrorMsg,
		&entry.Timestamp) {
		logs = append(logs, entry)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
