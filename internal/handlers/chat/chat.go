package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/websocket"

	"louma_back_end/internal/database"
	"louma_back_end/internal/models"
)

// Code de fermeture WebSocket renvoyé quand le demandeur n'est pas
// participant de la conversation.
const CloseUnauthorized = 4403

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// ParticipantRole détermine le rôle du demandeur dans la conversation d'une
// commande : "buyer", "vendor", ou vide s'il n'y participe pas.
func ParticipantRole(buyerID string, vendorIDs []string, userID, userVendorID string) string {
	if userVendorID != "" {
		for _, v := range vendorIDs {
			if v == userVendorID {
				return "vendor"
			}
		}
	}
	if buyerID != "" && buyerID == userID {
		return "buyer"
	}
	return ""
}

// InferRecipient : un vendeur écrit à l'acheteur ; l'acheteur écrit au
// premier vendeur de la commande (les commandes multi-vendeurs gardent un
// fil unique côté acheteur).
func InferRecipient(role, buyerID string, vendorIDs []string) string {
	if role == "vendor" {
		return buyerID
	}
	if len(vendorIDs) > 0 {
		return vendorIDs[0]
	}
	return ""
}

// loadConversation charge la commande et les identifiants des participants
func loadConversation(orderID string) (buyerID string, vendorIDs []string, err error) {
	var order models.Order
	if err = database.DB.Preload("VendorOrders").First(&order, "id = ?", orderID).Error; err != nil {
		return "", nil, err
	}

	for _, vo := range order.VendorOrders {
		vendorIDs = append(vendorIDs, vo.VendorID)
	}
	return order.BuyerID(), vendorIDs, nil
}

func chatChannel(orderID string) string {
	return "order_chat:" + orderID
}

// writeLoop est le seul écrivain de la connexion : il draine le canal
// outbound et porte aussi le keepalive. Toute erreur d'écriture coupe la
// conversation via cancel.
func writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, outbound <-chan []byte) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case payload := <-outbound:
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				cancel()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				cancel()
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// persistMessage écrit le message dans ScyllaDB (append-only)
func persistMessage(msg *models.Message) error {
	session, err := database.GetChatSession()
	if err != nil {
		return err
	}

	return session.Query(`
		INSERT INTO messages (order_id, id, sender_id, recipient_id, sender_role, body, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, msg.OrderID, msg.ID, msg.SenderID, msg.RecipientID, msg.SenderRole, msg.Body, msg.SentAt).Exec()
}

// ChatWebSocket : relais temps réel du chat de commande. Chaque message est
// persisté dans ScyllaDB puis diffusé via Redis pub/sub à toutes les
// instances, donc tous les sockets de la conversation le reçoivent même
// derrière un load balancer.
func ChatWebSocket(c *gin.Context) {
	orderID := c.Param("id")
	userID := c.GetString("user_id")
	userVendorID := c.GetString("vendor_id")

	buyerID, vendorIDs, err := loadConversation(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	role := ParticipantRole(buyerID, vendorIDs, userID, userVendorID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	if role == "" {
		// La politique d'accès se communique sur la socket elle-même
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(CloseUnauthorized, "participant requis"),
			time.Now().Add(time.Second))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := database.Redis.Subscribe(ctx, chatChannel(orderID))
	defer pubsub.Close()

	// Toutes les écritures passent par ce canal : gorilla/websocket
	// n'autorise qu'un seul écrivain à la fois par connexion.
	outbound := make(chan []byte, 16)
	go writeLoop(ctx, cancel, conn, outbound)

	// Diffusion Redis -> canal d'écriture
	go func() {
		for msg := range pubsub.Channel() {
			select {
			case outbound <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("🔌 Chat ouvert: commande %s, %s %s", orderID, role, userID)

	// Socket -> persistance + diffusion
	for {
		var in struct {
			Body string `json:"body"`
		}
		if err := conn.ReadJSON(&in); err != nil {
			break
		}

		body := strings.TrimSpace(in.Body)
		if body == "" || len(body) > 4000 {
			continue
		}

		senderID := userID
		if role == "vendor" {
			senderID = userVendorID
		}

		msg := models.Message{
			ID:          gocql.TimeUUID(),
			OrderID:     orderID,
			SenderID:    senderID,
			RecipientID: InferRecipient(role, buyerID, vendorIDs),
			SenderRole:  role,
			Body:        body,
			SentAt:      time.Now(),
		}

		if err := persistMessage(&msg); err != nil {
			log.Printf("❌ Erreur persistance message: %v", err)
			notice, _ := json.Marshal(gin.H{"type": "error", "message": "Message non enregistré"})
			select {
			case outbound <- notice:
			case <-ctx.Done():
			}
			continue
		}

		payload, err := json.Marshal(gin.H{"type": "message", "message": msg})
		if err != nil {
			continue
		}
		if err := database.Redis.Publish(ctx, chatChannel(orderID), string(payload)).Err(); err != nil {
			log.Printf("❌ Erreur diffusion message: %v", err)
		}
	}

	log.Printf("🔌 Chat fermé: commande %s, %s %s", orderID, role, userID)
}
