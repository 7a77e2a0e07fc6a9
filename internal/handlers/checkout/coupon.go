package checkout

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"louma_back_end/internal/cache"
	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// CreateCoupon : création d'un coupon (admin)
func CreateCoupon(c *gin.Context) {
	var req struct {
		Code           string     `json:"code" binding:"required"`
		Type           string     `json:"type" binding:"required"`
		Value          float64    `json:"value" binding:"required"`
		MinAmount      float64    `json:"min_amount"`
		MaxAmount      *float64   `json:"max_amount"`
		MaxUses        int        `json:"max_uses"`
		MaxUsesPerUser int        `json:"max_uses_per_user"`
		StartsAt       *time.Time `json:"starts_at"`
		ExpiresAt      *time.Time `json:"expires_at"`
		IsActive       *bool      `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.Type != "percentage" && req.Type != "fixed" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de coupon invalide (percentage ou fixed)"})
		return
	}
	if req.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La valeur doit être positive"})
		return
	}
	if req.Type == "percentage" && req.Value > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un pourcentage ne peut pas dépasser 100"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var existing models.Coupon
	if err := database.DB.Where("code = ?", code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code existe déjà"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	// Fenêtre de validité par défaut : actif tout de suite, pour un an
	startsAt := time.Now()
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	}
	expiresAt := startsAt.AddDate(1, 0, 0)
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	coupon := models.Coupon{
		ID:             uuid.NewString(),
		Code:           code,
		Type:           req.Type,
		Value:          req.Value,
		MinAmount:      req.MinAmount,
		MaxAmount:      req.MaxAmount,
		MaxUses:        req.MaxUses,
		MaxUsesPerUser: req.MaxUsesPerUser,
		StartsAt:       startsAt,
		ExpiresAt:      expiresAt,
		IsActive:       isActive,
		CreatedBy:      c.GetString("user_id"),
	}

	if err := database.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du coupon"})
		return
	}

	utils.LogAction(c, "create", "coupon", coupon.ID, nil, coupon)
	log.Printf("🎫 Coupon créé: %s (%s %.2f)", coupon.Code, coupon.Type, coupon.Value)
	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// GetAllCoupons : liste des coupons (admin)
func GetAllCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := database.DB.Order("created_at DESC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des coupons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// UpdateCoupon : mise à jour partielle d'un coupon (admin)
func UpdateCoupon(c *gin.Context) {
	id := c.Param("id")

	var coupon models.Coupon
	if err := database.DB.First(&coupon, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	var req struct {
		Value          *float64   `json:"value"`
		MinAmount      *float64   `json:"min_amount"`
		MaxAmount      *float64   `json:"max_amount"`
		MaxUses        *int       `json:"max_uses"`
		MaxUsesPerUser *int       `json:"max_uses_per_user"`
		StartsAt       *time.Time `json:"starts_at"`
		ExpiresAt      *time.Time `json:"expires_at"`
		IsActive       *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	old := coupon
	updates := map[string]interface{}{}
	if req.Value != nil {
		if *req.Value <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La valeur doit être positive"})
			return
		}
		updates["value"] = *req.Value
	}
	if req.MinAmount != nil {
		updates["min_amount"] = *req.MinAmount
	}
	if req.MaxAmount != nil {
		updates["max_amount"] = *req.MaxAmount
	}
	if req.MaxUses != nil {
		updates["max_uses"] = *req.MaxUses
	}
	if req.MaxUsesPerUser != nil {
		updates["max_uses_per_user"] = *req.MaxUsesPerUser
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune modification fournie"})
		return
	}

	if err := database.DB.Model(&coupon).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	utils.LogAction(c, "update", "coupon", coupon.ID, old, coupon)
	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// DeleteCoupon : suppression d'un coupon (admin)
func DeleteCoupon(c *gin.Context) {
	id := c.Param("id")

	result := database.DB.Delete(&models.Coupon{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	utils.LogAction(c, "delete", "coupon", id, nil, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Coupon supprimé"})
}

// validateAgainstCart évalue un code contre le panier courant du principal.
func validateAgainstCart(db *gorm.DB, code, userID, sessionKey string) models.CouponValidation {
	code = strings.ToUpper(strings.TrimSpace(code))

	var coupon models.Coupon
	if err := db.Where("code = ?", code).First(&coupon).Error; err != nil {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Code inconnu"}
	}

	var cart models.Cart
	var err error
	if userID != "" {
		err = db.Preload("Items.Variant").Where("user_id = ?", userID).First(&cart).Error
	} else {
		err = db.Preload("Items.Variant").Where("session_key = ?", sessionKey).First(&cart).Error
	}
	if err != nil || len(cart.Items) == 0 {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Panier vide"}
	}

	var subtotal float64
	for _, item := range cart.Items {
		subtotal += item.Variant.Price * float64(item.Quantity)
	}
	subtotal = Round2(subtotal)

	var userUsage int64
	if userID != "" {
		db.Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
			Count(&userUsage)
	}

	return EvaluateCoupon(coupon, subtotal, int(userUsage), time.Now())
}

// ValidateCoupon : évaluation d'un code sans l'appliquer
func ValidateCoupon(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	validation := validateAgainstCart(database.DB, req.Code, c.GetString("user_id"), c.GetString("session_key"))
	c.JSON(http.StatusOK, gin.H{"validation": validation})
}

// ApplyCoupon valide le code puis le mémorise en session Redis. Le montant
// affiché est indicatif : le checkout revalide toujours contre le panier final.
func ApplyCoupon(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionKey := c.GetString("session_key")
	if userID == "" && sessionKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	validation := validateAgainstCart(database.DB, req.Code, userID, sessionKey)
	if !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.ErrorMessage})
		return
	}

	principal := userID
	if principal == "" {
		principal = sessionKey
	}

	if err := cache.SetActiveCoupon(principal, validation.Code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'application du coupon"})
		return
	}

	log.Printf("🎫 Coupon appliqué: %s (réduction estimée %.2f€)", validation.Code, validation.Discount)
	c.JSON(http.StatusOK, gin.H{"validation": validation})
}

// RemoveCoupon retire le coupon actif de la session
func RemoveCoupon(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionKey := c.GetString("session_key")
	if userID == "" && sessionKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	principal := userID
	if principal == "" {
		principal = sessionKey
	}

	cache.ClearActiveCoupon(principal)
	c.JSON(http.StatusOK, gin.H{"message": "Coupon retiré"})
}
