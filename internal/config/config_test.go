package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setFirebaseEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"FIREBASE_TYPE":                        "service_account",
		"FIREBASE_PROJECT_ID":                  "appointments",
		"FIREBASE_PRIVATE_KEY_ID":              "key-id",
		"FIREBASE_PRIVATE_KEY":                 base64.StdEncoding.EncodeToString([]byte(`line1\nline2`)),
		"FIREBASE_CLIENT_EMAIL":                "svc@appointments.iam.gserviceaccount.com",
		"FIREBASE_CLIENT_ID":                   "1234",
		"FIREBASE_AUTH_URI":                    "https://accounts.google.com/o/oauth2/auth",
		"FIREBASE_TOKEN_URI":                   "https://oauth2.googleapis.com/token",
		"FIREBASE_AUTH_PROVIDER_X509_CERT_URL": "https://www.googleapis.com/oauth2/v1/certs",
		"FIREBASE_CLIENT_X509_CERT_URL":        "https://www.googleapis.com/robot/v1/metadata/x509/svc",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setFirebaseEnv(t)

	cnf, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "line1\nline2", cnf.Firebase.PrivateKey)
	assert.Equal(t, 30*time.Second, cnf.WriteTimeoutSecond)
	assert.Equal(t, ":8080", cnf.Server.Addr)
	assert.True(t, cnf.Server.Reconcile)
	assert.Equal(t, "info", cnf.Log.Level)
	assert.False(t, cnf.GilasAI.Enabled())
	assert.Equal(t, 3000, cnf.MaxPromptTokens)
}

func TestLoad_Overrides(t *testing.T) {
	setFirebaseEnv(t)
	t.Setenv("FIREBASE_WRITE_TIMEOUT_SECOND", "10s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("GILAS_API_KEY", "secret")
	t.Setenv("RECONCILE_AGGREGATES", "false")

	cnf, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cnf.WriteTimeoutSecond)
	assert.Equal(t, ":9090", cnf.Server.Addr)
	assert.True(t, cnf.GilasAI.Enabled())
	assert.False(t, cnf.Server.Reconcile)
}

func TestLoad_MissingFirebaseCredentials(t *testing.T) {
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PrivateKeyNotBase64(t *testing.T) {
	setFirebaseEnv(t)
	t.Setenv("FIREBASE_PRIVATE_KEY", "not base64!")

	_, err := Load()
	assert.Error(t, err)
}
