package checkout

import (
	"strings"
	"testing"
	"time"

	"louma_back_end/internal/models"
)

func line(vendorID, variantID string, price float64, qty int) Line {
	return Line{VendorID: vendorID, VariantID: variantID, UnitPrice: price, Quantity: qty}
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		line("v1", "a", 19.99, 2),
		line("v2", "b", 5.50, 1),
	}
	got := Subtotal(lines)
	if got != 45.48 {
		t.Errorf("sous-total attendu 45.48, obtenu %.2f", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(10.005); got != 10.01 {
		t.Errorf("attendu 10.01, obtenu %v", got)
	}
	if got := Round2(0.1 + 0.2); got != 0.30 {
		t.Errorf("attendu 0.30, obtenu %v", got)
	}
}

func TestGroupByVendor(t *testing.T) {
	lines := []Line{
		line("v1", "a", 10, 1),
		line("v2", "b", 20, 1),
		line("v1", "c", 5, 2),
	}

	slices := GroupByVendor(lines)
	if len(slices) != 2 {
		t.Fatalf("attendu 2 tranches, obtenu %d", len(slices))
	}

	// L'ordre suit la première apparition du vendeur
	if slices[0].VendorID != "v1" || slices[1].VendorID != "v2" {
		t.Errorf("ordre des tranches inattendu: %s, %s", slices[0].VendorID, slices[1].VendorID)
	}
	if slices[0].Subtotal != 20 {
		t.Errorf("sous-total v1 attendu 20, obtenu %.2f", slices[0].Subtotal)
	}
	if len(slices[0].Lines) != 2 {
		t.Errorf("v1 devrait avoir 2 lignes, obtenu %d", len(slices[0].Lines))
	}
	if slices[1].Subtotal != 20 {
		t.Errorf("sous-total v2 attendu 20, obtenu %.2f", slices[1].Subtotal)
	}
}

func TestComputeShippingDefaults(t *testing.T) {
	// Sans tarif configuré, les défauts de la plateforme s'appliquent
	if got := ComputeShipping(nil, models.ZoneDomestic, 50); got != DefaultDomesticRate {
		t.Errorf("attendu %.2f, obtenu %.2f", DefaultDomesticRate, got)
	}
	if got := ComputeShipping(nil, models.ZoneInternational, 50); got != DefaultInternationalRate {
		t.Errorf("attendu %.2f, obtenu %.2f", DefaultInternationalRate, got)
	}
}

func TestComputeShippingFreeThreshold(t *testing.T) {
	rate := &models.VendorShippingRate{Zone: models.ZoneDomestic, FlatRate: 4.99, FreeThreshold: 50}

	if got := ComputeShipping(rate, models.ZoneDomestic, 49.99); got != 4.99 {
		t.Errorf("sous le seuil: attendu 4.99, obtenu %.2f", got)
	}
	if got := ComputeShipping(rate, models.ZoneDomestic, 50); got != 0 {
		t.Errorf("au seuil: attendu 0, obtenu %.2f", got)
	}
}

func TestComputeShippingThresholdDisabled(t *testing.T) {
	// FreeThreshold à 0 = jamais de livraison gratuite
	rate := &models.VendorShippingRate{Zone: models.ZoneDomestic, FlatRate: 4.99, FreeThreshold: 0}
	if got := ComputeShipping(rate, models.ZoneDomestic, 10000); got != 4.99 {
		t.Errorf("attendu 4.99, obtenu %.2f", got)
	}
}

func TestComputeCommission(t *testing.T) {
	s := VendorSlice{VendorID: "v1", Subtotal: 100, ShippingCharged: 5.99}
	ComputeCommission(&s, 10)

	if s.CommissionAmount != 10 {
		t.Errorf("commission attendue 10, obtenu %.2f", s.CommissionAmount)
	}
	if s.NetPayout != 95.99 {
		t.Errorf("net attendu 95.99 (100 + 5.99 - 10), obtenu %.2f", s.NetPayout)
	}
}

func TestComputeCommissionRounding(t *testing.T) {
	s := VendorSlice{VendorID: "v1", Subtotal: 33.33}
	ComputeCommission(&s, 7.5)

	// 33.33 * 7.5% = 2.49975 -> 2.50
	if s.CommissionAmount != 2.50 {
		t.Errorf("commission attendue 2.50, obtenu %v", s.CommissionAmount)
	}
	if s.NetPayout != 30.83 {
		t.Errorf("net attendu 30.83, obtenu %v", s.NetPayout)
	}
}

func activeCoupon() models.Coupon {
	now := time.Now()
	return models.Coupon{
		ID:        "c1",
		Code:      "PROMO10",
		Type:      "percentage",
		Value:     10,
		StartsAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
		IsActive:  true,
	}
}

func TestEvaluateCouponPercentage(t *testing.T) {
	v := EvaluateCoupon(activeCoupon(), 200, 0, time.Now())
	if !v.IsValid {
		t.Fatalf("coupon refusé: %s", v.ErrorMessage)
	}
	if v.Discount != 20 {
		t.Errorf("réduction attendue 20, obtenu %.2f", v.Discount)
	}
}

func TestEvaluateCouponPercentageCapped(t *testing.T) {
	coupon := activeCoupon()
	max := 15.0
	coupon.MaxAmount = &max

	v := EvaluateCoupon(coupon, 200, 0, time.Now())
	if v.Discount != 15 {
		t.Errorf("réduction plafonnée attendue 15, obtenu %.2f", v.Discount)
	}
}

func TestEvaluateCouponFixedCappedBySubtotal(t *testing.T) {
	coupon := activeCoupon()
	coupon.Type = "fixed"
	coupon.Value = 50

	v := EvaluateCoupon(coupon, 30, 0, time.Now())
	if !v.IsValid {
		t.Fatalf("coupon refusé: %s", v.ErrorMessage)
	}
	// La réduction ne dépasse jamais le sous-total
	if v.Discount != 30 {
		t.Errorf("réduction attendue 30, obtenu %.2f", v.Discount)
	}
}

func TestEvaluateCouponInactive(t *testing.T) {
	coupon := activeCoupon()
	coupon.IsActive = false

	if v := EvaluateCoupon(coupon, 100, 0, time.Now()); v.IsValid {
		t.Error("un coupon inactif ne doit pas être accepté")
	}
}

func TestEvaluateCouponWindow(t *testing.T) {
	now := time.Now()

	coupon := activeCoupon()
	coupon.StartsAt = now.Add(time.Hour)
	coupon.ExpiresAt = now.Add(2 * time.Hour)
	if v := EvaluateCoupon(coupon, 100, 0, now); v.IsValid {
		t.Error("un coupon pas encore valide ne doit pas être accepté")
	}

	coupon = activeCoupon()
	coupon.ExpiresAt = now.Add(-time.Minute)
	if v := EvaluateCoupon(coupon, 100, 0, now); v.IsValid {
		t.Error("un coupon expiré ne doit pas être accepté")
	}
}

func TestEvaluateCouponMinAmount(t *testing.T) {
	coupon := activeCoupon()
	coupon.MinAmount = 50

	if v := EvaluateCoupon(coupon, 49.99, 0, time.Now()); v.IsValid {
		t.Error("le montant minimum doit être respecté")
	}
	if v := EvaluateCoupon(coupon, 50, 0, time.Now()); !v.IsValid {
		t.Errorf("au montant minimum, coupon refusé: %s", v.ErrorMessage)
	}
}

func TestEvaluateCouponUsageLimits(t *testing.T) {
	coupon := activeCoupon()
	coupon.MaxUses = 100
	coupon.UsedCount = 100
	if v := EvaluateCoupon(coupon, 100, 0, time.Now()); v.IsValid {
		t.Error("la limite globale doit être respectée")
	}

	coupon = activeCoupon()
	coupon.MaxUsesPerUser = 1
	if v := EvaluateCoupon(coupon, 100, 1, time.Now()); v.IsValid {
		t.Error("la limite par utilisateur doit être respectée")
	}

	// 0 = illimité
	coupon = activeCoupon()
	coupon.MaxUses = 0
	coupon.UsedCount = 99999
	if v := EvaluateCoupon(coupon, 100, 0, time.Now()); !v.IsValid {
		t.Errorf("MaxUses=0 devrait être illimité: %s", v.ErrorMessage)
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2025, 9, 8, 12, 0, 0, 0, time.UTC)
	number := GenerateOrderNumber(now)

	if !strings.HasPrefix(number, "LM-20250908-") {
		t.Errorf("préfixe inattendu: %s", number)
	}
	frag := strings.TrimPrefix(number, "LM-20250908-")
	if len(frag) != 6 {
		t.Errorf("fragment attendu de 6 caractères, obtenu %q", frag)
	}
	if frag != strings.ToUpper(frag) {
		t.Errorf("le fragment doit être en majuscules: %q", frag)
	}

	// Deux numéros générés au même instant doivent différer
	if GenerateOrderNumber(now) == GenerateOrderNumber(now) {
		t.Error("deux numéros identiques générés")
	}
}

func TestGrandTotalFloor(t *testing.T) {
	// Un coupon fixed plafonné au sous-total ne rend jamais le total négatif :
	// total = sous-total + port - réduction >= port
	coupon := activeCoupon()
	coupon.Type = "fixed"
	coupon.Value = 100

	subtotal := 30.0
	shipping := 5.99
	v := EvaluateCoupon(coupon, subtotal, 0, time.Now())

	grand := Round2(subtotal + shipping - v.Discount)
	if grand != 5.99 {
		t.Errorf("total attendu 5.99, obtenu %.2f", grand)
	}
}

func TestCents(t *testing.T) {
	// La conversion en centimes arrondit : une troncature perdrait un
	// centime sur les montants dont la représentation flottante est juste
	// sous la valeur exacte (0.29*100 = 28.999...)
	cases := []struct {
		amount float64
		want   int64
	}{
		{0.29, 29},
		{19.99, 1999},
		{35.48, 3548}, // 19.99 + 9.99 + 5.50
		{10, 1000},
		{0, 0},
	}
	for _, c := range cases {
		if got := Cents(c.amount); got != c.want {
			t.Errorf("Cents(%v) = %d, attendu %d", c.amount, got, c.want)
		}
	}
}

func TestSortedForLocking(t *testing.T) {
	items := []models.CartItem{
		{VariantID: "b"},
		{VariantID: "c"},
		{VariantID: "a"},
	}

	sorted := sortedForLocking(items)
	if sorted[0].VariantID != "a" || sorted[1].VariantID != "b" || sorted[2].VariantID != "c" {
		t.Errorf("ordre de verrouillage inattendu: %s, %s, %s",
			sorted[0].VariantID, sorted[1].VariantID, sorted[2].VariantID)
	}

	// L'ordre du panier lui-même ne bouge pas
	if items[0].VariantID != "b" {
		t.Error("le panier source ne doit pas être réordonné")
	}
}
