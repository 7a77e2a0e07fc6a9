package checkout

import "errors"

// Erreurs métier du checkout. Toutes provoquent le rollback complet de la
// transaction : aucune commande partielle possible.
var (
	ErrEmptyCart         = errors.New("panier vide")
	ErrInsufficientStock = errors.New("stock insuffisant")
	ErrInvalidCoupon     = errors.New("coupon invalide")
	ErrAddressNotFound   = errors.New("adresse introuvable")
	ErrVendorUnavailable = errors.New("vendeur indisponible")
)
