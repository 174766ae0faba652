package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "stock-api-test"
)

func TestHMAC_GenerateAndParse(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "Ana", testIssuer, 60)
	require.NoError(t, err)

	v, err := NewHMACVerifier(testSecret, testIssuer)
	require.NoError(t, err)
	claims, err := v.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Actor())
	assert.Equal(t, "Ana", claims.Name)
}

func TestHMAC_Rejections(t *testing.T) {
	v, err := NewHMACVerifier(testSecret, testIssuer)
	require.NoError(t, err)

	expired, err := Generate(testSecret, "user-1", "", testIssuer, -1)
	require.NoError(t, err)
	_, err = v.Parse(expired)
	assert.Error(t, err, "token expirado")

	otherSecret, err := Generate("otro-secret-completamente-distinto", "user-1", "", testIssuer, 60)
	require.NoError(t, err)
	_, err = v.Parse(otherSecret)
	assert.Error(t, err, "firma con otro secret")

	otherIssuer, err := Generate(testSecret, "user-1", "", "otro-emisor", 60)
	require.NoError(t, err)
	_, err = v.Parse(otherIssuer)
	assert.Error(t, err, "emisor distinto")

	noActor, err := Generate(testSecret, "", "", testIssuer, 60)
	require.NoError(t, err)
	_, err = v.Parse(noActor)
	assert.Error(t, err, "sin actor")

	_, err = v.Parse("token.invalido.aqui")
	assert.Error(t, err)
}

func TestNewHMACVerifier_EmptySecret(t *testing.T) {
	_, err := NewHMACVerifier("", testIssuer)
	assert.Error(t, err)
	_, err = Generate("", "u", "", testIssuer, 1)
	assert.Error(t, err)
}

func TestClaims_ActorFallsBackToSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|123"}}
	assert.Equal(t, "auth0|123", c.Actor())
}

func TestStaticJWKS_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := fmt.Sprintf(`{"keys":[{"kty":"RSA","kid":"k1","alg":"RS256","use":"sig","n":%q,"e":%q}]}`,
		base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	)
	v, err := NewStaticJWKSVerifier([]byte(jwks), "")
	require.NoError(t, err)
	defer v.Close()

	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "k1"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	got, err := v.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", got.Actor())

	// Un HS256 no se acepta contra un JWKS.
	hs, err := Generate(testSecret, "user-1", "", "", 60)
	require.NoError(t, err)
	_, err = v.Parse(hs)
	assert.Error(t, err)
}
