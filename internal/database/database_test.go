package database

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocql/gocql"
)

func writeTestCA(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("génération clé: %v", err)
	}
	tmpl := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "scylla-test-ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("génération certificat: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ca.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0600); err != nil {
		t.Fatalf("écriture certificat: %v", err)
	}
	return path
}

func scyllaTestConfig() ScyllaKeyspaceConfig {
	return ScyllaKeyspaceConfig{
		Hosts:       []string{"127.0.0.1"},
		Keyspace:    "louma_chat",
		Timeout:     time.Second,
		NumConns:    1,
		Consistency: gocql.Quorum,
	}
}

func TestCreateScyllaClusterSSL(t *testing.T) {
	config := scyllaTestConfig()
	config.SSLEnabled = true
	config.CACertPath = writeTestCA(t)

	cluster, err := createScyllaCluster(config)
	if err != nil {
		t.Fatalf("configuration cluster: %v", err)
	}

	// Le certificat CA lu doit effectivement être branché sur le cluster
	if cluster.SslOpts == nil || cluster.SslOpts.Config == nil {
		t.Fatal("SslOpts absent alors que SSL est activé")
	}
	if cluster.SslOpts.Config.RootCAs == nil {
		t.Error("le pool de certificats CA n'est pas attaché")
	}
}

func TestCreateScyllaClusterWithoutSSL(t *testing.T) {
	cluster, err := createScyllaCluster(scyllaTestConfig())
	if err != nil {
		t.Fatalf("configuration cluster: %v", err)
	}
	if cluster.SslOpts != nil {
		t.Error("SslOpts devrait rester nil quand SSL est désactivé")
	}
}

func TestCreateScyllaClusterBadCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("pas un certificat"), 0600); err != nil {
		t.Fatalf("écriture fichier: %v", err)
	}

	config := scyllaTestConfig()
	config.SSLEnabled = true
	config.CACertPath = path

	if _, err := createScyllaCluster(config); err == nil {
		t.Error("un certificat CA illisible devrait être refusé")
	}
}
