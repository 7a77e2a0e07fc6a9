package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VendorRequired vérifie que l'utilisateur est rattaché à un profil vendeur.
// Le vendor_id vient des claims JWT, posé par AuthRequired.
func VendorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, exists := c.Get("vendor_id")

		if !exists || vendorID.(string) == "" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Accès réservé aux vendeurs",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
