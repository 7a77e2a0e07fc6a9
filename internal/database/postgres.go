package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"louma_back_end/internal/models"
)

// DB : connexion PostgreSQL partagée (GORM). Tout l'état relationnel
// transactionnel (catalogue, paniers, commandes, wallets, coupons,
// freelancing) vit ici.
var DB *gorm.DB

func ConnectPostgres() {
	var dsn string
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("PG_HOST"), os.Getenv("PG_USER"), os.Getenv("PG_PASSWORD"),
			os.Getenv("PG_DATABASE"), os.Getenv("PG_PORT"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Échec connexion PostgreSQL: %v", err)
	}

	DB = db
	log.Println("✅ Connecté à PostgreSQL")
}

// Migrate crée/ajuste le schéma relationnel au démarrage
func Migrate() {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.VendorProfile{},
		&models.VendorShippingRate{},
		&models.Payout{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.VendorOrder{},
		&models.OrderAddress{},
		&models.Payment{},
		&models.Gig{},
		&models.Proposal{},
		&models.Contract{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate échoué: %v", err)
	}
	log.Println("✅ Schéma PostgreSQL migré")
}
