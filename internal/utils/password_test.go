package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("S3cret!mot2passe")
	if err != nil {
		t.Fatalf("erreur hash: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("format de hash inattendu: %s", hash)
	}

	ok, err := VerifyPassword("S3cret!mot2passe", hash)
	if err != nil {
		t.Fatalf("erreur vérification: %v", err)
	}
	if !ok {
		t.Error("le bon mot de passe doit être accepté")
	}

	ok, err = VerifyPassword("mauvais-mot-de-passe", hash)
	if err != nil {
		t.Fatalf("erreur vérification: %v", err)
	}
	if ok {
		t.Error("un mauvais mot de passe doit être refusé")
	}
}

func TestHashPasswordSaltUnique(t *testing.T) {
	h1, _ := HashPassword("pareil")
	h2, _ := HashPassword("pareil")
	if h1 == h2 {
		t.Error("deux hashes du même mot de passe doivent différer (sel aléatoire)")
	}
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	// Comptes créés avant la migration Argon2
	legacy, err := bcrypt.GenerateFromPassword([]byte("ancien-compte"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("erreur bcrypt: %v", err)
	}

	if !IsBcryptHash(string(legacy)) {
		t.Error("le hash bcrypt doit être détecté")
	}

	ok, err := VerifyPassword("ancien-compte", string(legacy))
	if err != nil {
		t.Fatalf("erreur vérification: %v", err)
	}
	if !ok {
		t.Error("un hash bcrypt valide doit être accepté")
	}

	ok, _ = VerifyPassword("autre", string(legacy))
	if ok {
		t.Error("un mauvais mot de passe bcrypt doit être refusé")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("x", "pas-un-hash"); err == nil {
		t.Error("un hash malformé doit renvoyer une erreur")
	}
}

func TestGenerateSepaQR(t *testing.T) {
	dataURI, err := GenerateSepaQR("BE12345678901234", "KREDBEBB", "Louma SRL", "LM-20250908-4F2A1C", 45.48)
	if err != nil {
		t.Fatalf("erreur QR: %v", err)
	}
	if !strings.HasPrefix(dataURI, "data:image/png;base64,") {
		t.Errorf("data URI attendu, obtenu %.40s", dataURI)
	}
}
