package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"louma_back_end/internal/database"
	"louma_back_end/internal/handlers/cart"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	email := strings.ToLower(input.Email)

	// email déjà pris pour un compte local ?
	var existing models.User
	err := database.DB.Where("email = ? AND provider = ?", email, "local").First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Email:    email,
		Password: hashed,
		Role:     "customer",
		Provider: "local",
	}

	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("❌ Erreur création utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du compte"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Compte créé: %s", user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe requis"})
		return
	}

	var user models.User
	err := database.DB.Where("email = ? AND provider = ?", strings.ToLower(input.Email), "local").First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte désactivé"})
		return
	}

	// Migration transparente bcrypt → Argon2 au login
	if utils.IsBcryptHash(user.Password) {
		if newHash, err := utils.HashPassword(input.Password); err == nil {
			database.DB.Model(&user).Update("password", newHash)
			log.Printf("🔄 Hash migré vers Argon2 pour %s", user.Email)
		}
	}

	// Fusionner le panier invité si le client en avait un
	if guestKey := c.GetHeader("X-Guest-Session"); guestKey != "" {
		if err := cart.MergeGuestCart(database.DB, guestKey, user.ID); err != nil && err != gorm.ErrRecordNotFound {
			log.Printf("⚠️ Fusion panier invité échouée pour %s: %v", user.Email, err)
		}
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Connexion: %s", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// GuestSession délivre un token de session anonyme pour le panier invité
func GuestSession(c *gin.Context) {
	sessionKey := uuid.NewString()

	token, err := utils.GenerateGuestToken(sessionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"session_key": sessionKey,
	})
}

// Me retourne le profil de l'utilisateur connecté
func Me(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := database.DB.Preload("Addresses").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}
