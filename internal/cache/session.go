package cache

import (
	"context"
	"fmt"
	"time"

	"louma_back_end/internal/database"
)

// Le store de session (Redis) ne porte que des paires clé/valeur opaques :
// le coupon actif d'un panier et des compteurs mis en cache pour l'affichage.

const (
	CouponSessionTTL = 2 * time.Hour
	CartCountTTL     = 5 * time.Minute
)

// cartPrincipal : un panier est identifié par user_id OU session_key invité
func couponKey(principal string) string {
	return "coupon:" + principal
}

// SetActiveCoupon mémorise le code coupon appliqué au panier.
// Le checkout relira et revalidera ce code contre le sous-total vivant.
func SetActiveCoupon(principal, code string) error {
	ctx := context.Background()
	return database.Redis.Set(ctx, couponKey(principal), code, CouponSessionTTL).Err()
}

// GetActiveCoupon retourne le code coupon de la session ("" si aucun)
func GetActiveCoupon(principal string) string {
	ctx := context.Background()
	code, err := database.Redis.Get(ctx, couponKey(principal)).Result()
	if err != nil {
		return ""
	}
	return code
}

// ClearActiveCoupon retire le coupon de la session (après checkout ou retrait manuel)
func ClearActiveCoupon(principal string) {
	ctx := context.Background()
	database.Redis.Del(ctx, couponKey(principal))
}

// SetCartCount met en cache le nombre de lignes du panier (badge frontend)
func SetCartCount(principal string, count int) {
	ctx := context.Background()
	database.Redis.Set(ctx, "cart_count:"+principal, count, CartCountTTL)
}

// GetCartCount retourne le compteur mis en cache (-1 si absent)
func GetCartCount(principal string) int {
	ctx := context.Background()
	count, err := database.Redis.Get(ctx, "cart_count:"+principal).Int()
	if err != nil {
		return -1
	}
	return count
}

// InvalidateCartCount force un recalcul au prochain affichage
func InvalidateCartCount(principal string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "cart_count:"+principal)
}

// PublishCartEvent notifie les sockets de synchronisation panier
func PublishCartEvent(principal, event string) {
	ctx := context.Background()
	database.Redis.Publish(ctx, fmt.Sprintf("cart:%s", principal), event)
}
