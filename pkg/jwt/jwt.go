package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// El actor de los movimientos es UserID, o Subject si el emisor no manda user_id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Actor devuelve la referencia opaca al usuario que firma los movimientos.
func (c *Claims) Actor() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Generate genera un token HS256 firmado para userID. Lo usa `stockctl token` y los tests.
func Generate(secret, userID, name, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Name:   name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verifier valida tokens con una clave fija (HS256) o con las claves publicadas en un JWKS.
type Verifier struct {
	keyfunc jwt.Keyfunc
	methods []string
	issuer  string
	jwks    *keyfunc.JWKS
}

// NewHMACVerifier valida tokens HS256 firmados con secret.
func NewHMACVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	return &Verifier{
		keyfunc: func(*jwt.Token) (any, error) { return []byte(secret), nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
		issuer:  issuer,
	}, nil
}

// NewJWKSVerifier descarga el JWKS de url y lo refresca en segundo plano hasta que ctx termine o se llame Close.
func NewJWKSVerifier(ctx context.Context, url, issuer string, refresh time.Duration) (*Verifier, error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refresh,
		RefreshUnknownKID: true,
		RefreshRateLimit:  time.Minute,
		RefreshTimeout:    10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: obtener JWKS: %w", err)
	}
	return newJWKSVerifier(jwks, issuer), nil
}

// NewStaticJWKSVerifier usa un JWKS ya cargado (JSON). Sin refresco.
func NewStaticJWKSVerifier(raw []byte, issuer string) (*Verifier, error) {
	jwks, err := keyfunc.NewJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("jwt: JWKS inválido: %w", err)
	}
	return newJWKSVerifier(jwks, issuer), nil
}

func newJWKSVerifier(jwks *keyfunc.JWKS, issuer string) *Verifier {
	return &Verifier{
		keyfunc: jwks.Keyfunc,
		methods: []string{"RS256", "RS384", "RS512", "ES256", "ES384", "PS256"},
		issuer:  issuer,
		jwks:    jwks,
	}
}

// Parse valida firma, expiración y emisor (si está configurado) y devuelve los claims.
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyfunc, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Actor() == "" {
		return nil, fmt.Errorf("token sin sub ni user_id")
	}
	return claims, nil
}

// Close detiene el refresco del JWKS, si lo hay.
func (v *Verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
