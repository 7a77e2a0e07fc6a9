package cart

import (
	"testing"

	"louma_back_end/internal/models"
)

func TestCartTotals(t *testing.T) {
	cart := &models.Cart{
		Items: []models.CartItem{
			{Quantity: 2, Variant: models.ProductVariant{Price: 19.99}},
			{Quantity: 1, Variant: models.ProductVariant{Price: 5.50}},
		},
	}

	total, count := cartTotals(cart)
	if total != 45.48 {
		t.Errorf("total attendu 45.48, obtenu %.2f", total)
	}
	if count != 3 {
		t.Errorf("compte attendu 3, obtenu %d", count)
	}
}

func TestCartTotalsEmpty(t *testing.T) {
	total, count := cartTotals(&models.Cart{})
	if total != 0 || count != 0 {
		t.Errorf("panier vide: attendu (0, 0), obtenu (%.2f, %d)", total, count)
	}
}

func TestPrincipalKey(t *testing.T) {
	if got := principalKey("u-1", ""); got != "u-1" {
		t.Errorf("l'utilisateur prime: obtenu %q", got)
	}
	if got := principalKey("", "sk-1"); got != "sk-1" {
		t.Errorf("clé de session attendue: obtenu %q", got)
	}
	// Connecté avec une session invité résiduelle : l'utilisateur prime
	if got := principalKey("u-1", "sk-1"); got != "u-1" {
		t.Errorf("l'utilisateur prime: obtenu %q", got)
	}
}
