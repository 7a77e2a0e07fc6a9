package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

func TestParticipantRole(t *testing.T) {
	vendorIDs := []string{"v1", "v2"}

	if got := ParticipantRole("buyer-1", vendorIDs, "buyer-1", ""); got != "buyer" {
		t.Errorf("acheteur attendu, obtenu %q", got)
	}
	if got := ParticipantRole("buyer-1", vendorIDs, "u-99", "v2"); got != "vendor" {
		t.Errorf("vendeur attendu, obtenu %q", got)
	}
	if got := ParticipantRole("buyer-1", vendorIDs, "u-99", "v3"); got != "" {
		t.Errorf("non-participant attendu, obtenu %q", got)
	}
	if got := ParticipantRole("buyer-1", vendorIDs, "u-99", ""); got != "" {
		t.Errorf("non-participant attendu, obtenu %q", got)
	}
}

func TestParticipantRoleGuestOrder(t *testing.T) {
	// Commande invité : pas d'acheteur identifiable, personne ne matche buyer
	if got := ParticipantRole("", []string{"v1"}, "", ""); got != "" {
		t.Errorf("attendu vide, obtenu %q", got)
	}
	if got := ParticipantRole("", []string{"v1"}, "u-1", "v1"); got != "vendor" {
		t.Errorf("le vendeur reste participant, obtenu %q", got)
	}
}

func TestInferRecipient(t *testing.T) {
	vendorIDs := []string{"v1", "v2"}

	// Un vendeur écrit à l'acheteur
	if got := InferRecipient("vendor", "buyer-1", vendorIDs); got != "buyer-1" {
		t.Errorf("attendu buyer-1, obtenu %q", got)
	}
	// L'acheteur écrit au premier vendeur
	if got := InferRecipient("buyer", "buyer-1", vendorIDs); got != "v1" {
		t.Errorf("attendu v1, obtenu %q", got)
	}
	if got := InferRecipient("buyer", "buyer-1", nil); got != "" {
		t.Errorf("attendu vide sans vendeur, obtenu %q", got)
	}
}

// La connexion n'a qu'un seul écrivain (writeLoop) : plusieurs producteurs
// peuvent pousser sur le canal en parallèle sans corrompre les trames.
func TestWriteLoopConcurrentProducers(t *testing.T) {
	upgraded := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		upgraded <- conn
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("connexion: %v", err)
	}
	defer client.Close()

	serverConn := <-upgraded
	defer serverConn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbound := make(chan []byte, 16)
	go writeLoop(ctx, cancel, serverConn, outbound)

	const producers, perProducer = 4, 25
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				select {
				case outbound <- []byte("bonjour"):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for i := 0; i < producers*perProducer; i++ {
		_, payload, err := client.ReadMessage()
		if err != nil {
			t.Fatalf("lecture trame %d: %v", i, err)
		}
		if string(payload) != "bonjour" {
			t.Errorf("trame corrompue: %q", payload)
		}
	}
	wg.Wait()
}
