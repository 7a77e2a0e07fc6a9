package freelance

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"louma_back_end/internal/database"
	"louma_back_end/internal/handlers/checkout"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// CreateProposal : demande d'un acheteur sur une prestation
func CreateProposal(c *gin.Context) {
	buyerID := c.GetString("user_id")

	var req struct {
		GigID   string  `json:"gig_id" binding:"required"`
		Message string  `json:"message"`
		Amount  float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var gig models.Gig
	if err := database.DB.Where("id = ? AND is_active = ?", req.GigID, true).First(&gig).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prestation introuvable"})
		return
	}

	// Un vendeur ne se propose pas sur son propre gig
	if c.GetString("vendor_id") == gig.VendorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vous ne pouvez pas répondre à votre propre prestation"})
		return
	}

	amount := req.Amount
	if amount <= 0 {
		amount = gig.Price
	}

	proposal := models.Proposal{
		ID:      uuid.NewString(),
		GigID:   gig.ID,
		BuyerID: buyerID,
		Message: req.Message,
		Amount:  amount,
		Status:  models.ProposalStatusPending,
	}

	if err := database.DB.Create(&proposal).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			c.JSON(http.StatusConflict, gin.H{"error": "Vous avez déjà une demande sur cette prestation"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'envoi de la demande"})
		return
	}

	utils.LogAction(c, "create", "proposal", proposal.ID, nil, gin.H{"gig_id": gig.ID, "amount": amount})
	log.Printf("✅ Demande envoyée: %s sur %s (%.2f€)", proposal.ID, gig.Title, amount)
	c.JSON(http.StatusCreated, gin.H{"proposal": proposal})
}

// ListMyProposals : demandes envoyées par l'acheteur connecté
func ListMyProposals(c *gin.Context) {
	var proposals []models.Proposal
	err := database.DB.Where("buyer_id = ?", c.GetString("user_id")).
		Order("created_at DESC").Find(&proposals).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// ListReceivedProposals : demandes reçues sur les prestations du vendeur
func ListReceivedProposals(c *gin.Context) {
	vendorID := c.GetString("vendor_id")

	var proposals []models.Proposal
	err := database.DB.
		Joins("JOIN gigs ON gigs.id = proposals.gig_id").
		Where("gigs.vendor_id = ?", vendorID).
		Order("proposals.created_at DESC").
		Find(&proposals).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// acceptProposal crée le contrat dans la même transaction que le changement
// de statut. La commission est figée au taux du vendeur à l'acceptation.
func acceptProposal(db *gorm.DB, proposalID, vendorID string) (*models.Contract, error) {
	var contract *models.Contract

	err := db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&proposal, "id = ?", proposalID).Error; err != nil {
			return err
		}
		if proposal.Status != models.ProposalStatusPending {
			return errProposalDecided
		}

		var gig models.Gig
		if err := tx.First(&gig, "id = ?", proposal.GigID).Error; err != nil {
			return err
		}
		if gig.VendorID != vendorID {
			return errNotYourGig
		}

		var vendor models.VendorProfile
		if err := tx.First(&vendor, "id = ?", vendorID).Error; err != nil {
			return err
		}

		if err := tx.Model(&proposal).Update("status", models.ProposalStatusAccepted).Error; err != nil {
			return err
		}

		commission := round2(proposal.Amount * vendor.CommissionRate / 100)
		cnt := models.Contract{
			ID:               uuid.NewString(),
			ProposalID:       proposal.ID,
			GigID:            gig.ID,
			VendorID:         vendorID,
			BuyerID:          proposal.BuyerID,
			Amount:           proposal.Amount,
			CommissionRate:   vendor.CommissionRate,
			CommissionAmount: commission,
			NetPayout:        round2(proposal.Amount - commission),
			Status:           models.ContractStatusActive,
			DueAt:            time.Now().AddDate(0, 0, gig.DeliveryDays),
		}
		if err := tx.Create(&cnt).Error; err != nil {
			return err
		}

		contract = &cnt
		return nil
	})

	if err != nil {
		return nil, err
	}
	return contract, nil
}

// AcceptProposal : le vendeur accepte, le contrat naît et l'acheteur reçoit
// un client_secret pour financer le contrat.
func AcceptProposal(c *gin.Context) {
	contract, err := acceptProposal(database.DB, c.Param("id"), c.GetString("vendor_id"))
	if err != nil {
		switch err {
		case errProposalDecided, errNotYourGig:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Demande introuvable"})
		}
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(checkout.Cents(contract.Amount)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"kind":        "contract",
			"contract_id": contract.ID,
		},
	}

	var clientSecret string
	if intent, err := paymentintent.New(params); err != nil {
		// Le contrat existe, le financement pourra être relancé
		log.Println("❌ Erreur Stripe:", err)
	} else {
		clientSecret = intent.ClientSecret
		database.DB.Model(contract).Update("payment_intent_id", intent.ID)
	}

	notifyContractParties(*contract, "created")
	utils.LogAction(c, "accept", "proposal", contract.ProposalID, nil, gin.H{"contract_id": contract.ID})
	log.Printf("✅ Contrat créé: %s (%.2f€, net %.2f€)", contract.ID, contract.Amount, contract.NetPayout)

	c.JSON(http.StatusCreated, gin.H{
		"contract":      contract,
		"client_secret": clientSecret,
	})
}

// DeclineProposal : refus par le vendeur
func DeclineProposal(c *gin.Context) {
	vendorID := c.GetString("vendor_id")

	var proposal models.Proposal
	err := database.DB.
		Joins("JOIN gigs ON gigs.id = proposals.gig_id").
		Where("proposals.id = ? AND gigs.vendor_id = ?", c.Param("id"), vendorID).
		First(&proposal).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demande introuvable"})
		return
	}
	if proposal.Status != models.ProposalStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette demande a déjà été traitée"})
		return
	}

	if err := database.DB.Model(&proposal).Update("status", models.ProposalStatusDeclined).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du refus"})
		return
	}

	utils.LogAction(c, "decline", "proposal", proposal.ID, nil, nil)
	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

// WithdrawProposal : retrait par l'acheteur tant que la demande est pending
func WithdrawProposal(c *gin.Context) {
	var proposal models.Proposal
	err := database.DB.Where("id = ? AND buyer_id = ?", c.Param("id"), c.GetString("user_id")).
		First(&proposal).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demande introuvable"})
		return
	}
	if proposal.Status != models.ProposalStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette demande ne peut plus être retirée"})
		return
	}

	if err := database.DB.Model(&proposal).Update("status", models.ProposalStatusWithdrawn).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du retrait"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}
