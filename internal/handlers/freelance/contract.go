package freelance

import (
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

var (
	errProposalDecided   = errors.New("cette demande a déjà été traitée")
	errNotYourGig        = errors.New("cette prestation ne vous appartient pas")
	errInvalidTransition = errors.New("transition de statut interdite")
	errContractNotYours  = errors.New("contrat introuvable")
	errContractNotFunded = errors.New("contrat non financé")
)

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Transitions autorisées d'un contrat. Le statut ne revient jamais en arrière.
var contractTransitions = map[models.ContractStatus][]models.ContractStatus{
	models.ContractStatusActive:    {models.ContractStatusDelivered, models.ContractStatusCancelled, models.ContractStatusDisputed},
	models.ContractStatusDelivered: {models.ContractStatusCompleted, models.ContractStatusDisputed},
	models.ContractStatusCompleted: {},
	models.ContractStatusCancelled: {},
	models.ContractStatusDisputed:  {},
}

// ValidateTransition vérifie qu'un passage de statut est autorisé
func ValidateTransition(from, to models.ContractStatus) bool {
	for _, allowed := range contractTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ListMyContracts : contrats où l'utilisateur est acheteur ou vendeur
func ListMyContracts(c *gin.Context) {
	userID := c.GetString("user_id")
	vendorID := c.GetString("vendor_id")

	var contracts []models.Contract
	q := database.DB.Order("created_at DESC")
	if vendorID != "" {
		q = q.Where("buyer_id = ? OR vendor_id = ?", userID, vendorID)
	} else {
		q = q.Where("buyer_id = ?", userID)
	}
	if err := q.Find(&contracts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

// GetContract : détail d'un contrat, réservé aux deux parties
func GetContract(c *gin.Context) {
	var contract models.Contract
	if err := database.DB.First(&contract, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		return
	}

	userID := c.GetString("user_id")
	vendorID := c.GetString("vendor_id")
	if contract.BuyerID != userID && contract.VendorID != vendorID && c.GetString("role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// MarkDelivered : le vendeur déclare le travail livré
func MarkDelivered(c *gin.Context) {
	var contract models.Contract
	err := database.DB.Where("id = ? AND vendor_id = ?", c.Param("id"), c.GetString("vendor_id")).
		First(&contract).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		return
	}

	if !ValidateTransition(contract.Status, models.ContractStatusDelivered) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transition de statut interdite"})
		return
	}

	now := time.Now()
	err = database.DB.Model(&contract).Updates(map[string]interface{}{
		"status":       models.ContractStatusDelivered,
		"delivered_at": now,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	notifyContractParties(contract, "delivered")
	utils.LogAction(c, "deliver", "contract", contract.ID, nil, nil)
	log.Printf("📦 Contrat livré: %s", contract.ID)
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// completeContract crédite le wallet du vendeur sous verrou ligne dans la
// même transaction que le changement de statut. Sans financement préalable,
// pas de complétion.
func completeContract(db *gorm.DB, contractID, buyerID string) (*models.Contract, error) {
	var contract models.Contract

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&contract, "id = ? AND buyer_id = ?", contractID, buyerID).Error; err != nil {
			return errContractNotYours
		}

		if !ValidateTransition(contract.Status, models.ContractStatusCompleted) {
			return errInvalidTransition
		}
		if !contract.IsFunded {
			return errContractNotFunded
		}

		now := time.Now()
		if err := tx.Model(&contract).Updates(map[string]interface{}{
			"status":       models.ContractStatusCompleted,
			"completed_at": now,
		}).Error; err != nil {
			return err
		}

		var vendor models.VendorProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&vendor, "id = ?", contract.VendorID).Error; err != nil {
			return err
		}
		return tx.Model(&vendor).
			UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", contract.NetPayout)).Error
	})

	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// Complete : l'acheteur valide la livraison, le vendeur est payé
func Complete(c *gin.Context) {
	contract, err := completeContract(database.DB, c.Param("id"), c.GetString("user_id"))
	if err != nil {
		switch err {
		case errInvalidTransition:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transition de statut interdite"})
		case errContractNotFunded:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le contrat doit être financé avant la complétion"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		}
		return
	}

	notifyContractParties(*contract, "completed")
	utils.LogAction(c, "complete", "contract", contract.ID, nil, gin.H{"net_payout": contract.NetPayout})
	log.Printf("✅ Contrat complété: %s (%.2f€ versés au vendeur)", contract.ID, contract.NetPayout)
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// Cancel : annulation d'un contrat encore actif, par l'une des deux parties
func Cancel(c *gin.Context) {
	var contract models.Contract
	if err := database.DB.First(&contract, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		return
	}

	if contract.BuyerID != c.GetString("user_id") && contract.VendorID != c.GetString("vendor_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}
	if !ValidateTransition(contract.Status, models.ContractStatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transition de statut interdite"})
		return
	}

	if err := database.DB.Model(&contract).Update("status", models.ContractStatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'annulation"})
		return
	}

	// Le remboursement Stripe d'un contrat financé se fait côté back-office
	notifyContractParties(contract, "cancelled")
	utils.LogAction(c, "cancel", "contract", contract.ID, nil, nil)
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// Dispute : ouverture d'un litige par l'une des deux parties
func Dispute(c *gin.Context) {
	var contract models.Contract
	if err := database.DB.First(&contract, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		return
	}

	if contract.BuyerID != c.GetString("user_id") && contract.VendorID != c.GetString("vendor_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}
	if !ValidateTransition(contract.Status, models.ContractStatusDisputed) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transition de statut interdite"})
		return
	}

	if err := database.DB.Model(&contract).Update("status", models.ContractStatusDisputed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'ouverture du litige"})
		return
	}

	notifyContractParties(contract, "disputed")
	utils.LogAction(c, "dispute", "contract", contract.ID, nil, nil)
	log.Printf("⚠️ Litige ouvert: contrat %s", contract.ID)
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// notifyContractParties prévient l'acheteur et le vendeur par e-mail
func notifyContractParties(contract models.Contract, event string) {
	var emails []string

	var buyer models.User
	if err := database.DB.First(&buyer, "id = ?", contract.BuyerID).Error; err == nil {
		emails = append(emails, buyer.Email)
	}
	var vendor models.VendorProfile
	if err := database.DB.First(&vendor, "id = ?", contract.VendorID).Error; err == nil {
		var owner models.User
		if err := database.DB.First(&owner, "id = ?", vendor.OwnerID).Error; err == nil {
			emails = append(emails, owner.Email)
		}
	}

	if len(emails) > 0 {
		utils.NotifyContractEvent(contract, event, emails...)
	}
}
