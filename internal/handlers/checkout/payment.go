package checkout

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
	"louma_back_end/internal/utils"
)

// CreateOrderPaymentIntent crée le PaymentIntent d'une commande déjà
// enregistrée. Le montant vient de la commande en base, jamais du client.
func CreateOrderPaymentIntent(order *models.Order) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(Cents(order.GrandTotal)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"kind":         "order",
			"order_id":     order.ID,
			"order_number": order.Number,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}

	if err := database.DB.Model(&models.Payment{}).
		Where("order_id = ?", order.ID).
		Update("payment_intent_id", intent.ID).Error; err != nil {
		log.Printf("❌ Erreur enregistrement PaymentIntent %s: %v", intent.ID, err)
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour %s", intent.ID, order.GrandTotal, order.Number)
	return intent.ClientSecret, nil
}

// RetryPayment recrée un client_secret pour une commande en attente de paiement
func RetryPayment(c *gin.Context) {
	number := c.Param("number")

	var order models.Order
	err := database.DB.Preload("Payment").Where("number = ?", number).First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.BuyerID() != "" && order.BuyerID() != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette commande n'attend pas de paiement"})
		return
	}
	if order.Payment == nil || order.Payment.Method != "card" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette commande n'est pas payable par carte"})
		return
	}

	clientSecret, err := CreateOrderPaymentIntent(&order)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du paiement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client_secret": clientSecret,
		"amount":        order.GrandTotal,
		"currency":      "eur",
	})
}

// StripeWebhook : point d'entrée des événements Stripe
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)
	handleStripeEvent(event)

	c.Status(http.StatusOK)
}

func handleStripeEvent(event stripe.Event) {
	if event.Type != "payment_intent.succeeded" {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		return
	}
	log.Printf("🧠 PaymentIntent reçu : %s", pi.ID)

	switch pi.Metadata["kind"] {
	case "order":
		markOrderPaid(pi)
	case "contract":
		markContractFunded(pi)
	default:
		log.Printf("⚠️ Métadonnées incomplètes pour %s", pi.ID)
	}
}

// markOrderPaid passe la commande en payée et envoie la confirmation.
// Idempotent : un webhook rejoué ne renvoie pas d'e-mail.
func markOrderPaid(pi stripe.PaymentIntent) {
	orderID := pi.Metadata["order_id"]
	if orderID == "" {
		log.Println("⚠️ order_id manquant dans les métadonnées")
		return
	}

	var order models.Order
	if err := database.DB.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		log.Printf("❌ Commande introuvable pour %s: %v", pi.ID, err)
		return
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		log.Printf("🔁 Commande %s déjà payée, on ignore.", order.Number)
		return
	}

	if err := database.DB.Model(&order).
		Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
		log.Printf("❌ Erreur mise à jour commande %s: %v", order.Number, err)
		return
	}
	database.DB.Model(&models.Payment{}).Where("order_id = ?", order.ID).Updates(map[string]interface{}{
		"status":            models.PaymentStatusPaid,
		"payment_intent_id": pi.ID,
	})

	log.Printf("✅ Commande %s payée (%s)", order.Number, pi.ID)
	utils.NotifyOrderConfirmed(order, order.Email)
}

// markContractFunded marque un contrat freelance comme financé. Le wallet
// du vendeur ne sera crédité qu'à la complétion par l'acheteur.
func markContractFunded(pi stripe.PaymentIntent) {
	contractID := pi.Metadata["contract_id"]
	if contractID == "" {
		log.Println("⚠️ contract_id manquant dans les métadonnées")
		return
	}

	var contract models.Contract
	if err := database.DB.First(&contract, "id = ?", contractID).Error; err != nil {
		log.Printf("❌ Contrat introuvable pour %s: %v", pi.ID, err)
		return
	}

	if contract.IsFunded {
		log.Printf("🔁 Contrat %s déjà financé, on ignore.", contract.ID)
		return
	}

	if err := database.DB.Model(&contract).Updates(map[string]interface{}{
		"is_funded":         true,
		"payment_intent_id": pi.ID,
	}).Error; err != nil {
		log.Printf("❌ Erreur mise à jour contrat %s: %v", contract.ID, err)
		return
	}

	log.Printf("✅ Contrat %s financé (%s)", contract.ID, pi.ID)
}
