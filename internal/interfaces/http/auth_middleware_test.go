package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	apphttp "github.com/jhoicas/Inventario-pecuario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-pecuario/pkg/jwt"
)

const (
	testJWTSecret = "ledger-test-secret"
	testUserID    = "4f8e0c1a-6b1d-4c47-9a55-2f0b7c9d1e21"
	testIssuer    = "inventario-pecuario-test"
)

func decodeJSON(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

// tokenForRole header Authorization para un usuario con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

// Matriz de permisos sobre el router real: cada rol recorre las operaciones sensibles del libro.
func TestRBAC_MatrizDePermisos(t *testing.T) {
	cases := []struct {
		role        string
		consume     int
		adjust      int
		deactivate  int
		listLedger  int
		stillActive bool
	}{
		{role: apphttp.RoleAdmin, consume: http.StatusCreated, adjust: http.StatusCreated, deactivate: http.StatusNoContent, listLedger: http.StatusOK},
		{role: apphttp.RoleVeterinario, consume: http.StatusCreated, adjust: http.StatusForbidden, deactivate: http.StatusForbidden, listLedger: http.StatusOK, stillActive: true},
		{role: apphttp.RoleOperador, consume: http.StatusCreated, adjust: http.StatusForbidden, deactivate: http.StatusForbidden, listLedger: http.StatusOK, stillActive: true},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			app := buildLedgerApp(t)
			p := createProduct(t, app, "medications", map[string]any{"name": "Oxitetraciclina", "unit_measure": "ml", "opening_balance": "50"})

			var e dto.ErrorResponse
			assert.Equal(t, tc.consume, call(t, app, tc.role, http.MethodPost, "/api/consumptions",
				map[string]any{"product_id": p.ID, "quantity": "2", "animal_id": "BOV-7"}, nil))

			adjust := map[string]any{"product_id": p.ID, "new_balance": "40", "reason": "conteo"}
			assert.Equal(t, tc.adjust, call(t, app, tc.role, http.MethodPost, "/api/medications/stock/adjustments", adjust, &e))
			if tc.adjust == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", e.Code)
			}

			assert.Equal(t, tc.listLedger, call(t, app, tc.role, http.MethodGet, "/api/medications/stock/movements", nil, nil))
			assert.Equal(t, tc.deactivate, call(t, app, tc.role, http.MethodDelete, "/api/medications/products/"+p.ID, nil, nil))

			var got dto.ProductResponse
			require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleAdmin, http.MethodGet, "/api/medications/products/"+p.ID, nil, &got))
			assert.Equal(t, tc.stillActive, got.Active)
		})
	}
}

func TestAuth_TokensRechazados(t *testing.T) {
	app := buildLedgerApp(t)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, apphttp.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secreto", testUserID, apphttp.RoleAdmin, testIssuer, 60)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		code   string
	}{
		"sin header":    {header: "", code: "MISSING_TOKEN"},
		"esquema basic": {header: "Basic dXNlcjpwYXNz", code: "INVALID_TOKEN"},
		"expirado":      {header: "Bearer " + expired, code: "INVALID_TOKEN"},
		"firma de otro": {header: "Bearer " + foreign, code: "INVALID_TOKEN"},
		"no es un jwt":  {header: "Bearer abc.def.ghi", code: "INVALID_TOKEN"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/feeds/stock/movements", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			var e dto.ErrorResponse
			require.NoError(t, decodeJSON(resp, &e))
			assert.Equal(t, tc.code, e.Code)
		})
	}
}

// Un token sin rol puede leer, pero las rutas de administrador exigen el claim.
func TestAuth_TokenSinRolEnRutaDeAdmin(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "feeds", map[string]any{"name": "Heno", "unit_measure": "kg"})

	var e dto.ErrorResponse
	status := call(t, app, "", http.MethodDelete, "/api/feeds/products/"+p.ID, nil, &e)
	assert.Equal(t, http.StatusUnauthorized, status)

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, 60)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/api/feeds/products/"+p.ID, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, decodeJSON(resp, &e))
	assert.Equal(t, "MISSING_ROLE", e.Code)
}

// El usuario del token queda como autor del movimiento.
func TestAuth_UsuarioDelTokenFirmaElMovimiento(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "feeds", map[string]any{"name": "Silo", "unit_measure": "kg"})

	var mov dto.MovementResponse
	require.Equal(t, http.StatusCreated, call(t, app, apphttp.RoleOperador, http.MethodPost, "/api/feeds/stock/entries",
		map[string]any{"product_id": p.ID, "quantity": "10"}, &mov))
	assert.Equal(t, testUserID, mov.CreatedBy)
}

func TestJWT_IdaYVuelta(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, apphttp.RoleVeterinario, testIssuer, 5)
	require.NoError(t, err)

	userID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, apphttp.RoleVeterinario, role)

	_, err = pkgjwt.Generate("", testUserID, apphttp.RoleAdmin, testIssuer, 5)
	assert.Error(t, err)
	_, _, err = pkgjwt.Parse("", tok)
	assert.Error(t, err)
}
