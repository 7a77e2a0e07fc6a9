package order

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// transitions autorisées pour le statut d'une commande. Le statut ne
// revient jamais en arrière.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusDelivered, models.OrderStatusCancelled, models.OrderStatusDisputed},
	models.OrderStatusDelivered:  {models.OrderStatusDisputed},
	models.OrderStatusCancelled:  {},
	models.OrderStatusDisputed:   {},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ListMyOrders : commandes de l'utilisateur connecté, les plus récentes d'abord
func ListMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	var orders []models.Order
	err := database.DB.Preload("Items").Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// loadOrderForViewer charge une commande et vérifie que le demandeur a le
// droit de la voir : acheteur, vendeur d'une tranche, ou admin.
func loadOrderForViewer(c *gin.Context, id string) (*models.Order, bool) {
	var o models.Order
	err := database.DB.Preload("Items").Preload("VendorOrders").
		Preload("Address").Preload("Payment").
		First(&o, "id = ?", id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return nil, false
	}

	userID := c.GetString("user_id")
	role := c.GetString("role")
	vendorID := c.GetString("vendor_id")

	if role == "admin" || (o.BuyerID() != "" && o.BuyerID() == userID) {
		return &o, true
	}
	if vendorID != "" {
		for _, vo := range o.VendorOrders {
			if vo.VendorID == vendorID {
				return &o, true
			}
		}
	}

	c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
	return nil, false
}

// GetOrder : détail d'une commande
func GetOrder(c *gin.Context) {
	o, ok := loadOrderForViewer(c, c.Param("id"))
	if !ok {
		return
	}

	// Un vendeur ne voit que sa tranche financière, pas celles des autres
	if c.GetString("role") != "admin" && o.BuyerID() != c.GetString("user_id") {
		vendorID := c.GetString("vendor_id")
		var own []models.VendorOrder
		var ownItems []models.OrderItem
		for _, vo := range o.VendorOrders {
			if vo.VendorID == vendorID {
				own = append(own, vo)
			}
		}
		for _, item := range o.Items {
			if item.VendorID == vendorID {
				ownItems = append(ownItems, item)
			}
		}
		o.VendorOrders = own
		o.Items = ownItems
	}

	c.JSON(http.StatusOK, gin.H{"order": o})
}

// UpdateOrderStatus : changement de statut d'une tranche vendeur.
// Le statut global de la commande suit quand toutes les tranches concordent.
func UpdateOrderStatus(c *gin.Context) {
	o, ok := loadOrderForViewer(c, c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}

	newStatus := models.OrderStatus(req.Status)
	role := c.GetString("role")
	vendorID := c.GetString("vendor_id")

	// Seuls un vendeur de la commande ou un admin changent le statut
	if role != "admin" && vendorID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux vendeurs"})
		return
	}

	if role == "admin" {
		if !canTransition(o.Status, newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Transition interdite: %s → %s", o.Status, newStatus),
			})
			return
		}
		old := o.Status
		if err := database.DB.Model(o).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
			return
		}
		utils.LogAction(c, "update_status", "order", o.ID, gin.H{"status": old}, gin.H{"status": newStatus})
		c.JSON(http.StatusOK, gin.H{"order_id": o.ID, "status": newStatus})
		return
	}

	var slice *models.VendorOrder
	for i := range o.VendorOrders {
		if o.VendorOrders[i].VendorID == vendorID {
			slice = &o.VendorOrders[i]
			break
		}
	}
	if slice == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	if !canTransition(slice.Status, newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Transition interdite: %s → %s", slice.Status, newStatus),
		})
		return
	}

	if err := database.DB.Model(slice).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	// La commande globale suit quand toutes les tranches ont le même statut
	allSame := true
	for _, vo := range o.VendorOrders {
		if vo.ID != slice.ID && vo.Status != newStatus {
			allSame = false
			break
		}
	}
	if allSame && o.Status != newStatus {
		database.DB.Model(o).Update("status", newStatus)
	}

	utils.LogAction(c, "update_status", "vendor_order", slice.ID, nil, gin.H{"status": newStatus})
	log.Printf("🔄 Tranche %s → %s (commande %s)", slice.ID, newStatus, o.Number)
	c.JSON(http.StatusOK, gin.H{"vendor_order_id": slice.ID, "status": newStatus})
}

// DownloadInvoice : facture PDF d'une commande
func DownloadInvoice(c *gin.Context) {
	o, ok := loadOrderForViewer(c, c.Param("id"))
	if !ok {
		return
	}

	pdf, err := utils.GenerateInvoicePDF(*o)
	if err != nil {
		log.Println("❌ Erreur génération PDF :", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la génération de la facture"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=facture_%s.pdf", o.Number))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
