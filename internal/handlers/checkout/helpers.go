package checkout

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"louma_back_end/internal/models"
)

// Tarifs par défaut quand un vendeur n'a pas configuré de tarif pour la zone
const (
	DefaultDomesticRate      = 5.99
	DefaultInternationalRate = 19.99
)

// Line : ligne de commande normalisée, prix figé au moment du calcul.
// Tout le découpage par vendeur travaille sur ces lignes.
type Line struct {
	VendorID    string
	VariantID   string
	ProductName string
	VariantName string
	SKU         string
	UnitPrice   float64
	Quantity    int
}

// VendorSlice : tranche financière d'un vendeur dans la commande
type VendorSlice struct {
	VendorID         string
	Lines            []Line
	Subtotal         float64
	ShippingCharged  float64
	CommissionRate   float64
	CommissionAmount float64
	NetPayout        float64
}

func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Cents convertit un montant en euros vers des centimes entiers pour Stripe.
// Arrondi, pas tronqué : int64(19.99*100) donnerait 1998.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// sortedForLocking renvoie les lignes du panier en ordre d'identifiant de
// variante, l'ordre dans lequel le checkout prend ses verrous.
func sortedForLocking(items []models.CartItem) []models.CartItem {
	sorted := make([]models.CartItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].VariantID < sorted[j].VariantID
	})
	return sorted
}

func lineTotal(l Line) float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Subtotal somme toutes les lignes
func Subtotal(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += lineTotal(l)
	}
	return Round2(total)
}

// GroupByVendor découpe les lignes par vendeur, dans un ordre stable
// (ordre d'apparition dans le panier).
func GroupByVendor(lines []Line) []VendorSlice {
	index := map[string]int{}
	var slices []VendorSlice

	for _, l := range lines {
		i, seen := index[l.VendorID]
		if !seen {
			index[l.VendorID] = len(slices)
			slices = append(slices, VendorSlice{VendorID: l.VendorID})
			i = len(slices) - 1
		}
		slices[i].Lines = append(slices[i].Lines, l)
		slices[i].Subtotal = Round2(slices[i].Subtotal + lineTotal(l))
	}

	return slices
}

// ComputeShipping calcule les frais de port d'un vendeur : tarif plat pour la
// zone, gratuit si le sous-total vendeur atteint le seuil configuré (0 = jamais).
// Sans tarif configuré pour la zone, on retombe sur le tarif plateforme.
func ComputeShipping(rate *models.VendorShippingRate, zone string, vendorSubtotal float64) float64 {
	if rate == nil {
		if zone == models.ZoneInternational {
			return DefaultInternationalRate
		}
		return DefaultDomesticRate
	}

	if rate.FreeThreshold > 0 && vendorSubtotal >= rate.FreeThreshold {
		return 0
	}
	return rate.FlatRate
}

// ComputeCommission applique le taux de commission plateforme :
// commission = sous-total × taux / 100
// net_payout = sous-total + port facturé − commission
func ComputeCommission(s *VendorSlice, commissionRate float64) {
	s.CommissionRate = commissionRate
	s.CommissionAmount = Round2(s.Subtotal * commissionRate / 100)
	s.NetPayout = Round2(s.Subtotal + s.ShippingCharged - s.CommissionAmount)
}

// EvaluateCoupon valide un coupon contre le sous-total vivant du panier.
// userUsage = nombre d'utilisations déjà faites par cet utilisateur.
func EvaluateCoupon(coupon models.Coupon, subtotal float64, userUsage int, now time.Time) models.CouponValidation {
	if !coupon.IsActive {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Ce coupon n'est plus actif"}
	}

	if now.Before(coupon.StartsAt) {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Ce coupon n'est pas encore valide"}
	}

	if now.After(coupon.ExpiresAt) {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Ce coupon a expiré"}
	}

	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Ce coupon a atteint sa limite d'utilisation"}
	}

	if coupon.MaxUsesPerUser > 0 && userUsage >= coupon.MaxUsesPerUser {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Vous avez déjà utilisé ce coupon le nombre maximum de fois"}
	}

	if subtotal < coupon.MinAmount {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: fmt.Sprintf("Montant minimum requis: %.2f€", coupon.MinAmount),
		}
	}

	var discount float64
	switch coupon.Type {
	case "percentage":
		discount = Round2(subtotal * coupon.Value / 100)
		if coupon.MaxAmount != nil && discount > *coupon.MaxAmount {
			discount = *coupon.MaxAmount
		}
	case "fixed":
		discount = coupon.Value
		if discount > subtotal {
			discount = subtotal
		}
	default:
		return models.CouponValidation{IsValid: false, ErrorMessage: "Type de coupon invalide"}
	}

	return models.CouponValidation{
		IsValid:  true,
		Discount: discount,
		Type:     coupon.Type,
		Code:     coupon.Code,
	}
}

// GenerateOrderNumber produit un numéro lisible, ex: LM-20250908-4F2A1C
func GenerateOrderNumber(now time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("LM-%s-%s", now.Format("20060102"), frag)
}

// SortSlicesByVendor trie les tranches par vendeur (pour des sorties stables)
func SortSlicesByVendor(slices []VendorSlice) {
	sort.Slice(slices, func(i, j int) bool {
		return slices[i].VendorID < slices[j].VendorID
	})
}
