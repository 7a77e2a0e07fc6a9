package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
)

// History : historique du chat d'une commande, du plus ancien au plus
// récent, réservé aux participants.
func History(c *gin.Context) {
	orderID := c.Param("id")

	buyerID, vendorIDs, err := loadConversation(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	role := ParticipantRole(buyerID, vendorIDs, c.GetString("user_id"), c.GetString("vendor_id"))
	if role == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux participants"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	session, err := database.GetChatSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat indisponible"})
		return
	}

	iter := session.Query(`
		SELECT id, sender_id, recipient_id, sender_role, body, sent_at
		FROM messages WHERE order_id = ? ORDER BY id ASC LIMIT ?
	`, orderID, limit).Iter()

	messages := []models.Message{}
	var msg models.Message
	for iter.Scan(&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.SenderRole, &msg.Body, &msg.SentAt) {
		msg.OrderID = orderID
		messages = append(messages, msg)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture de l'historique"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "role": role})
}
