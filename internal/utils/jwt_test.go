package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"louma_back_end/internal/models"
)

func parseClaims(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("super_secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token invalide: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims illisibles")
	}
	return claims
}

func TestGenerateJWT(t *testing.T) {
	vendorID := "v-123"
	user := models.User{
		ID:       "u-1",
		Email:    "test@louma.shop",
		Role:     "vendor",
		VendorID: &vendorID,
	}

	tokenString, err := GenerateJWT(user)
	if err != nil {
		t.Fatalf("erreur génération: %v", err)
	}

	claims := parseClaims(t, tokenString)
	if claims["user_id"] != "u-1" {
		t.Errorf("user_id attendu u-1, obtenu %v", claims["user_id"])
	}
	if claims["role"] != "vendor" {
		t.Errorf("role attendu vendor, obtenu %v", claims["role"])
	}
	if claims["vendor_id"] != "v-123" {
		t.Errorf("vendor_id attendu v-123, obtenu %v", claims["vendor_id"])
	}
}

func TestGenerateGuestToken(t *testing.T) {
	tokenString, err := GenerateGuestToken("sk-abc")
	if err != nil {
		t.Fatalf("erreur génération: %v", err)
	}

	claims := parseClaims(t, tokenString)
	if claims["session_key"] != "sk-abc" {
		t.Errorf("session_key attendu sk-abc, obtenu %v", claims["session_key"])
	}
	if claims["guest"] != true {
		t.Errorf("claim guest attendu, obtenu %v", claims["guest"])
	}
}
