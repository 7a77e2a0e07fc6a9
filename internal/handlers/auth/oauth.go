package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"

	internalauth "louma_back_end/internal/auth"
	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// OAuthBegin démarre le flow OAuth web (provider en query param)
func OAuthBegin(c *gin.Context) {
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// OAuthCallback termine le flow OAuth web et délivre un JWT
func OAuthCallback(c *gin.Context) {
	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur callback OAuth: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification OAuth échouée"})
		return
	}

	user, err := findOrCreateOAuthUser(gothUser.Provider, gothUser.UserID, gothUser.Email, gothUser.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Connexion OAuth (%s): %s", gothUser.Provider, user.Email)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GoogleMobileExchange : les apps mobiles envoient le code d'autorisation
// récupéré côté client ; on l'échange nous-mêmes contre un token Google.
func GoogleMobileExchange(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	provider := internalauth.GoogleMobileProvider()
	oauthToken, err := provider.Exchange(c.Request.Context(), input.Code)
	if err != nil {
		log.Printf("❌ Échange code Google échoué: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code invalide ou expiré"})
		return
	}

	info, err := fetchGoogleUserInfo(c.Request.Context(), provider, oauthToken.AccessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Impossible de récupérer le profil Google"})
		return
	}

	user, err := findOrCreateOAuthUser("google", info.Sub, info.Email, info.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func fetchGoogleUserInfo(ctx context.Context, provider *internalauth.OAuthProvider, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://openidconnect.googleapis.com/v1/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func findOrCreateOAuthUser(provider, providerID, email, name string) (*models.User, error) {
	email = strings.ToLower(email)

	var user models.User
	err := database.DB.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err == nil {
		return &user, nil
	}

	user = models.User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Role:       "customer",
		Provider:   provider,
		ProviderID: providerID,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Compte OAuth créé (%s): %s", provider, email)
	return &user, nil
}
