package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/stock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "operario-1"
	testIssuer    = "stock-api-test"
	testExpMin    = 60
)

func testVerifier(t *testing.T) *pkgjwt.Verifier {
	t.Helper()
	v, err := pkgjwt.NewHMACVerifier(testJWTSecret, testIssuer)
	require.NoError(t, err)
	return v
}

// bearer genera un JWT válido para testUserID.
func bearer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "Operario Uno", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// buildMeApp expone GET /me detrás de AuthMiddleware y devuelve el actor.
func buildMeApp(t *testing.T) *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testVerifier(t)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"actor": apphttp.GetActor(c),
			"name":  c.Locals(apphttp.LocalName),
		})
	})
	return app
}

func getMe(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeActor(t *testing.T) {
	resp := getMe(t, buildMeApp(t), bearer(t))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["actor"])
	assert.Equal(t, "Operario Uno", body["name"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, -5)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", "Bearer " + expired, "INVALID_TOKEN"},
	}
	app := buildMeApp(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := getMe(t, app, tc.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestAuthMiddleware_BearerInsensibleAMayusculas(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := getMe(t, buildMeApp(t), "bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
