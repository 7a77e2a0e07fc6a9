package utils

import (
	"fmt"

	"louma_back_end/internal/models"
)

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.ProductName, item.Quantity, item.UnitPrice, item.UnitPrice*float64(item.Quantity))
	}

	discountRow := ""
	if order.DiscountAmount > 0 {
		discountRow = fmt.Sprintf(`
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Réduction (%s):</td>
					<td style="padding: 10px;">-%.2f€</td>
				</tr>`, order.CouponCode, order.DiscountAmount)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande %s</h2>
		<p>Bonjour,</p>
		<p>Votre commande a été confirmée avec succès.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Livraison:</td>
					<td style="padding: 10px;">%.2f€</td>
				</tr>
				%s
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f€</td>
				</tr>
			</tfoot>
		</table>

		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Louma</strong>
		</p>
	</div>
</body>
</html>`, order.Number, itemsHTML, order.ShippingCost, discountRow, order.GrandTotal)
}

// GeneratePayoutDecisionHTML génère le HTML de notification de décision de payout
func GeneratePayoutDecisionHTML(payout models.Payout, approved bool) string {
	verdict := "approuvée"
	detail := "Le virement sera effectué sous 3 jours ouvrés."
	if !approved {
		verdict = "refusée"
		detail = "Le montant a été restitué sur votre solde vendeur."
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Demande de retrait %s</h2>
		<p>Votre demande de retrait de <strong>%.2f€</strong> a été %s.</p>
		<p>%s</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Louma</strong>
		</p>
	</div>
</body>
</html>`, verdict, payout.Amount, verdict, detail)
}

// GenerateContractEventHTML génère le HTML de notification d'événement de contrat
func GenerateContractEventHTML(contract models.Contract, event string) string {
	var message string
	switch event {
	case "created":
		message = "Un nouveau contrat a été créé suite à l'acceptation de votre proposition."
	case "delivered":
		message = "Le freelance a marqué le contrat comme livré. Vous pouvez le valider ou ouvrir un litige."
	case "completed":
		message = fmt.Sprintf("Le contrat est terminé. %.2f€ ont été crédités sur le solde du vendeur.", contract.NetPayout)
	case "cancelled":
		message = "Le contrat a été annulé."
	case "disputed":
		message = "Un litige a été ouvert sur le contrat. Notre équipe va vous contacter."
	default:
		message = "Le statut du contrat a changé."
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Mise à jour de votre contrat</h2>
		<p>%s</p>
		<p>Montant du contrat : <strong>%.2f€</strong></p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Louma</strong>
		</p>
	</div>
</body>
</html>`, message, contract.Amount)
}
