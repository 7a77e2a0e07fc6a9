package utils

import (
	"log"

	"louma_back_end/internal/models"
)

// Les notifications e-mail sont du "fire-and-forget" : lancées dans une
// goroutine, les échecs sont loggés et n'atteignent jamais la transaction
// qui les a déclenchées.

// NotifyOrderConfirmed envoie la confirmation de commande avec facture PDF
func NotifyOrderConfirmed(order models.Order, userEmail string) {
	go func() {
		html := GenerateOrderConfirmationHTML(order)

		pdf, err := GenerateInvoicePDF(order)
		if err != nil {
			log.Printf("⚠️ Facture PDF indisponible pour %s: %v", order.Number, err)
			pdf = nil
		}

		if err := SendEmail(userEmail, "✅ Commande confirmée - Louma", html, pdf); err != nil {
			log.Printf("❌ Erreur envoi email confirmation %s: %v", order.Number, err)
			return
		}
		log.Printf("📧 Confirmation envoyée: %s → %s", order.Number, userEmail)
	}()
}

// NotifyPayoutDecision prévient le vendeur de la décision sur sa demande de retrait
func NotifyPayoutDecision(payout models.Payout, vendorEmail string, approved bool) {
	go func() {
		subject := "💰 Retrait approuvé - Louma"
		if !approved {
			subject = "❌ Retrait refusé - Louma"
		}

		if err := SendEmail(vendorEmail, subject, GeneratePayoutDecisionHTML(payout, approved), nil); err != nil {
			log.Printf("❌ Erreur envoi email payout %s: %v", payout.ID, err)
			return
		}
		log.Printf("📧 Décision payout envoyée à %s", vendorEmail)
	}()
}

// NotifyContractEvent prévient acheteur et vendeur d'un événement de contrat
func NotifyContractEvent(contract models.Contract, event string, emails ...string) {
	go func() {
		for _, to := range emails {
			if to == "" {
				continue
			}
			if err := SendEmail(to, "📋 Contrat mis à jour - Louma", GenerateContractEventHTML(contract, event), nil); err != nil {
				log.Printf("❌ Erreur envoi email contrat %s: %v", contract.ID, err)
			}
		}
	}()
}
