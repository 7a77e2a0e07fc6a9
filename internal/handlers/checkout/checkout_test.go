package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"louma_back_end/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("ouverture sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("pool sqlite: %v", err)
	}
	// Une base :memory: par connexion — on en garde une seule
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{}, &models.Address{},
		&models.VendorProfile{}, &models.VendorShippingRate{},
		&models.Product{}, &models.ProductVariant{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.VendorOrder{},
		&models.OrderAddress{}, &models.Payment{},
		&models.Coupon{}, &models.CouponUsage{},
	)
	if err != nil {
		t.Fatalf("migration: %v", err)
	}
	return db
}

func seedVendor(t *testing.T, db *gorm.DB, commissionRate float64) string {
	t.Helper()
	vendor := models.VendorProfile{
		ID:             uuid.NewString(),
		OwnerID:        uuid.NewString(),
		StoreName:      "Boutique Test",
		Slug:           "boutique-" + uuid.NewString()[:8],
		CommissionRate: commissionRate,
		IsApproved:     true,
	}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("création vendeur: %v", err)
	}
	return vendor.ID
}

func seedVariant(t *testing.T, db *gorm.DB, vendorID string, price float64, stock int) string {
	t.Helper()
	product := models.Product{
		ID:       uuid.NewString(),
		VendorID: vendorID,
		Name:     "Produit Test",
		Slug:     "produit-" + uuid.NewString()[:8],
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("création produit: %v", err)
	}
	variant := models.ProductVariant{
		ID:            uuid.NewString(),
		ProductID:     product.ID,
		SKU:           "SKU-" + uuid.NewString()[:8],
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("création variante: %v", err)
	}
	return variant.ID
}

func seedGuestCart(t *testing.T, db *gorm.DB, sessionKey string, items map[string]int) {
	t.Helper()
	cart := models.Cart{SessionKey: &sessionKey}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("création panier: %v", err)
	}
	for variantID, qty := range items {
		item := models.CartItem{CartID: cart.ID, VariantID: variantID, Quantity: qty}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("création ligne panier: %v", err)
		}
	}
}

func seedUserCart(t *testing.T, db *gorm.DB, userID string, items map[string]int) {
	t.Helper()
	cart := models.Cart{UserID: &userID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("création panier: %v", err)
	}
	for variantID, qty := range items {
		item := models.CartItem{CartID: cart.ID, VariantID: variantID, Quantity: qty}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("création ligne panier: %v", err)
		}
	}
}

func guestInput(sessionKey string) PlaceOrderInput {
	return PlaceOrderInput{
		SessionKey: sessionKey,
		Email:      "invite@example.com",
		Method:     "cod",
		Address: &AddressInput{
			FullName:   "Jean Dupont",
			Street:     "1 rue de la Paix",
			City:       "Bruxelles",
			PostalCode: "1000",
			Country:    "BE",
			Zone:       models.ZoneDomestic,
		},
	}
}

func stockOf(t *testing.T, db *gorm.DB, variantID string) int {
	t.Helper()
	var variant models.ProductVariant
	if err := db.First(&variant, "id = ?", variantID).Error; err != nil {
		t.Fatalf("relecture variante: %v", err)
	}
	return variant.StockQuantity
}

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	db.Model(&models.Order{}).Count(&n)
	return n
}

func TestPlaceOrderGuest(t *testing.T) {
	db := testDB(t)
	vendorID := seedVendor(t, db, 10)
	variantID := seedVariant(t, db, vendorID, 19.99, 10)
	seedGuestCart(t, db, "guest-1", map[string]int{variantID: 2})

	now := time.Now()
	coupon := models.Coupon{
		ID:        uuid.NewString(),
		Code:      "BIENVENUE5",
		Type:      "fixed",
		Value:     5,
		StartsAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
		IsActive:  true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("création coupon: %v", err)
	}

	in := guestInput("guest-1")
	in.CouponCode = "BIENVENUE5"

	order, err := PlaceOrder(db, in)
	if err != nil {
		t.Fatalf("checkout invité refusé: %v", err)
	}

	// Commande invitée : aucun compte rattaché
	if order.UserID != nil {
		t.Errorf("user_id devrait être nil pour un invité, obtenu %q", *order.UserID)
	}

	var stored models.Order
	if err := db.First(&stored, "id = ? AND user_id IS NULL", order.ID).Error; err != nil {
		t.Fatalf("commande invitée introuvable avec user_id NULL: %v", err)
	}
	// 39.98 + 5.99 de port - 5 de coupon
	if stored.GrandTotal != 40.97 {
		t.Errorf("total attendu 40.97, obtenu %.2f", stored.GrandTotal)
	}

	var usage models.CouponUsage
	if err := db.First(&usage, "coupon_id = ?", coupon.ID).Error; err != nil {
		t.Fatalf("utilisation du coupon non enregistrée: %v", err)
	}
	if usage.UserID != nil {
		t.Errorf("l'utilisation invitée devrait garder user_id nil, obtenu %q", *usage.UserID)
	}

	if got := stockOf(t, db, variantID); got != 8 {
		t.Errorf("stock attendu 8, obtenu %d", got)
	}

	var vendor models.VendorProfile
	db.First(&vendor, "id = ?", vendorID)
	// 39.98 + 5.99 - 4.00 de commission (la réduction est absorbée par la plateforme)
	if vendor.WalletBalance != 41.97 {
		t.Errorf("wallet attendu 41.97, obtenu %.2f", vendor.WalletBalance)
	}

	// Le panier invité disparaît après le checkout
	var cart models.Cart
	err = db.Where("session_key = ?", "guest-1").First(&cart).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("le panier invité devrait être supprimé, err = %v", err)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := testDB(t)
	vendorID := seedVendor(t, db, 10)
	okVariant := seedVariant(t, db, vendorID, 10, 10)
	shortVariant := seedVariant(t, db, vendorID, 10, 1)
	seedUserCart(t, db, uuid.NewString(), map[string]int{okVariant: 2, shortVariant: 3})

	var cart models.Cart
	db.First(&cart)
	userID := *cart.UserID

	_, err := PlaceOrder(db, PlaceOrderInput{
		UserID: userID,
		Email:  "client@example.com",
		Method: "cod",
		Address: &AddressInput{
			FullName: "A", Street: "B", City: "C", PostalCode: "D", Country: "E",
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("attendu ErrInsufficientStock, obtenu %v", err)
	}

	if n := orderCount(t, db); n != 0 {
		t.Errorf("aucune commande ne devrait exister, obtenu %d", n)
	}
	if got := stockOf(t, db, okVariant); got != 10 {
		t.Errorf("le stock de la variante valide ne doit pas bouger: attendu 10, obtenu %d", got)
	}
	if got := stockOf(t, db, shortVariant); got != 1 {
		t.Errorf("stock attendu 1, obtenu %d", got)
	}

	var items int64
	db.Model(&models.CartItem{}).Count(&items)
	if items != 2 {
		t.Errorf("le panier doit rester intact, attendu 2 lignes, obtenu %d", items)
	}
}

// Une erreur survenant après les premières écritures (ici : la table des
// utilisations de coupon a disparu) doit tout annuler, y compris le
// décrément du stock et le crédit du wallet.
func TestPlaceOrderRollsBackAllWrites(t *testing.T) {
	db := testDB(t)
	vendorID := seedVendor(t, db, 10)
	variantID := seedVariant(t, db, vendorID, 19.99, 10)
	seedGuestCart(t, db, "guest-rb", map[string]int{variantID: 2})

	now := time.Now()
	coupon := models.Coupon{
		ID:        uuid.NewString(),
		Code:      "CASSE",
		Type:      "fixed",
		Value:     5,
		StartsAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
		IsActive:  true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("création coupon: %v", err)
	}
	if err := db.Migrator().DropTable(&models.CouponUsage{}); err != nil {
		t.Fatalf("suppression table: %v", err)
	}

	in := guestInput("guest-rb")
	in.CouponCode = "CASSE"

	if _, err := PlaceOrder(db, in); err == nil {
		t.Fatal("le checkout aurait dû échouer")
	}

	if n := orderCount(t, db); n != 0 {
		t.Errorf("aucune commande ne devrait survivre au rollback, obtenu %d", n)
	}
	if got := stockOf(t, db, variantID); got != 10 {
		t.Errorf("stock attendu 10 après rollback, obtenu %d", got)
	}

	var vendor models.VendorProfile
	db.First(&vendor, "id = ?", vendorID)
	if vendor.WalletBalance != 0 {
		t.Errorf("wallet attendu 0 après rollback, obtenu %.2f", vendor.WalletBalance)
	}

	var items int64
	db.Model(&models.CartItem{}).Count(&items)
	if items != 1 {
		t.Errorf("le panier doit rester intact, attendu 1 ligne, obtenu %d", items)
	}
}

// Deux checkouts sur la même variante se sérialisent sous verrou : le second
// relit le stock décrémenté et le stock ne devient jamais négatif.
func TestPlaceOrderStockNeverNegative(t *testing.T) {
	db := testDB(t)
	vendorID := seedVendor(t, db, 10)
	variantID := seedVariant(t, db, vendorID, 10, 5)
	seedGuestCart(t, db, "guest-a", map[string]int{variantID: 3})
	seedGuestCart(t, db, "guest-b", map[string]int{variantID: 3})

	if _, err := PlaceOrder(db, guestInput("guest-a")); err != nil {
		t.Fatalf("premier checkout refusé: %v", err)
	}
	if got := stockOf(t, db, variantID); got != 2 {
		t.Fatalf("stock attendu 2 après le premier checkout, obtenu %d", got)
	}

	_, err := PlaceOrder(db, guestInput("guest-b"))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("attendu ErrInsufficientStock, obtenu %v", err)
	}
	if got := stockOf(t, db, variantID); got != 2 {
		t.Errorf("le stock ne doit jamais passer sous zéro: attendu 2, obtenu %d", got)
	}
}
