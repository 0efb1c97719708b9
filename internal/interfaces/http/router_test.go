package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/sqlstore"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/stock-tracker/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: SQLite temporal + aplicación completa + cookie jar manual
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUser     = "admin"
	testPassword = "password123"
)

type testEnv struct {
	t       *testing.T
	app     *fiber.App
	db      *sqlstore.DB
	cookies map[string]string
	csrf    string
	widget  int64
	gadget  int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "web.db")
	db, err := sqlstore.Open(ctx, "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=1&_txlock=immediate&_busy_timeout=5000", path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = sqlstore.Migrate(ctx, db)
	require.NoError(t, err)

	hash, err := password.Hash(testPassword)
	require.NoError(t, err)
	_, err = db.SQL().Exec(`INSERT INTO users (username, password_hash) VALUES (?, ?)`, testUser, hash)
	require.NoError(t, err)

	env := &testEnv{t: t, db: db, cookies: map[string]string{}}
	env.widget = env.seedItem("Widget", 3, "10")
	env.gadget = env.seedItem("Gadget", 2, "5")

	itemRepo := sqlstore.NewItemRepository(db.SQL(), db.Dialect())
	historyRepo := sqlstore.NewStockHistoryRepository(db.SQL())
	authUC, err := auth.NewAuthUseCase(sqlstore.NewUserRepository(db.SQL()), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	})
	require.NoError(t, err)
	query := inventory.NewStockQueryUseCase(itemRepo, historyRepo)

	env.app = apphttp.NewApp(apphttp.AppConfig{
		Name:      "stock-tracker-test",
		CookieKey: encryptcookie.GenerateKey(),
		Session:   apphttp.SessionConfig{TTL: time.Hour},
	}, apphttp.RouterDeps{
		AuthUC:      authUC,
		ApplyChange: inventory.NewApplyChangeUseCase(sqlstore.NewTxRunner(db), true),
		StockQuery:  query,
		Reports:     inventory.NewReportUseCase(query, pdf.NewMarotoStockReport("test"), xlsx.NewExcelizeStockReport()),
		JWTSecret:   testJWTSecret,
		Ping:        db.Ping,
	})
	return env
}

func (e *testEnv) seedItem(name string, qty int64, subtotal string) int64 {
	e.t.Helper()
	res, err := e.db.SQL().Exec(`INSERT INTO items (item_name, quantity, subtotal) VALUES (?, ?, ?)`, name, qty, subtotal)
	require.NoError(e.t, err)
	id, err := res.LastInsertId()
	require.NoError(e.t, err)
	return id
}

func (e *testEnv) quantityOf(id int64) int64 {
	e.t.Helper()
	var q int64
	require.NoError(e.t, e.db.SQL().QueryRow(`SELECT quantity FROM items WHERE item_id = ?`, id).Scan(&q))
	return q
}

func (e *testEnv) historyCount() int {
	e.t.Helper()
	var n int
	require.NoError(e.t, e.db.SQL().QueryRow(`SELECT COUNT(*) FROM stock_history`).Scan(&n))
	return n
}

// do envía la petición con las cookies guardadas y actualiza el jar con la respuesta.
func (e *testEnv) do(req *http.Request) *http.Response {
	e.t.Helper()
	for name, val := range e.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: val})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	for _, ck := range resp.Cookies() {
		expired := ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now()))
		if expired || ck.Value == "" {
			delete(e.cookies, ck.Name)
			continue
		}
		e.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (e *testEnv) get(path string) *http.Response {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

var csrfField = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

// csrfToken toma el token del formulario de login (anónimo) y lo reutiliza mientras dure la sesión.
func (e *testEnv) csrfToken() string {
	e.t.Helper()
	if e.csrf == "" {
		resp := e.get("/login")
		require.Equal(e.t, http.StatusOK, resp.StatusCode)
		m := csrfField.FindStringSubmatch(bodyOf(e.t, resp))
		require.Len(e.t, m, 2, "el formulario debe incluir el token CSRF")
		e.csrf = m[1]
	}
	return e.csrf
}

// postForm envía el formulario con el token CSRF vigente.
func (e *testEnv) postForm(path string, form url.Values) *http.Response {
	with := url.Values{"_csrf": {e.csrfToken()}}
	for k, v := range form {
		with[k] = v
	}
	return e.postFormRaw(path, with)
}

func (e *testEnv) postFormRaw(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return e.do(req)
}

func (e *testEnv) login() {
	e.t.Helper()
	resp := e.postForm("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	defer resp.Body.Close()
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(e.t, "/stocks", resp.Header.Get("Location"))
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Acceso anónimo
// ──────────────────────────────────────────────────────────────────────────────

func TestAnonimo_RutasProtegidasRedirigenALogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/stocks",
		fmt.Sprintf("/stock_history/%d", env.widget),
		fmt.Sprintf("/stock/%d/add", env.widget),
		"/stocks/export.xlsx",
		"/stocks/report.pdf",
	} {
		assertRedirect(t, env.get(path), "/login")
	}
}

func TestAnonimo_PostNoModificaStock(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(fmt.Sprintf("/stock/%d/remove", env.widget), url.Values{"action": {"remove"}, "quantity": {"1"}})
	assertRedirect(t, resp, "/login")
	assert.Equal(t, int64(3), env.quantityOf(env.widget))
	assert.Equal(t, 0, env.historyCount())
}

func TestHome_RedirigeSegunSesion(t *testing.T) {
	env := newTestEnv(t)
	assertRedirect(t, env.get("/"), "/login")

	env.login()
	assertRedirect(t, env.get("/"), "/stocks")
	assertRedirect(t, env.get("/login"), "/stocks")
}

func TestCookieIlegible_SeTrataComoAnonimo(t *testing.T) {
	env := newTestEnv(t)
	env.cookies["stock_session"] = "no-es-una-cookie-valida"

	assertRedirect(t, env.get("/stocks"), "/login")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Formulario(t *testing.T) {
	env := newTestEnv(t)
	resp := env.get("/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Contains(t, body, `name="username"`)
	assert.Contains(t, body, `name="password"`)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)

	cases := []url.Values{
		{"username": {testUser}, "password": {"incorrecta"}},
		{"username": {"nadie"}, "password": {testPassword}},
		{"username": {""}, "password": {""}},
	}
	for _, form := range cases {
		resp := env.postForm("/login", form)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := bodyOf(t, resp)
		assert.Contains(t, body, "Invalid username or password")
		assert.NotContains(t, body, "incorrecta", "la contraseña nunca se devuelve")
	}
	assertRedirect(t, env.get("/stocks"), "/login")
}

func TestLogout_DestruyeSesionYEsIdempotente(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	assertRedirect(t, env.get("/logout"), "/login")
	assertRedirect(t, env.get("/stocks"), "/login")

	// Sin sesión tampoco es error
	assertRedirect(t, env.get("/logout"), "/login")
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado y cambios de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStocks_ListaItemsYValorTotal(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	resp := env.get("/stocks")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Contains(t, body, "Widget")
	assert.Contains(t, body, "Gadget")
	assert.Contains(t, body, "$40.00", "3×10 + 2×5")
	assert.Contains(t, body, "Signed in as admin")
}

func TestStocks_FallaDelAlmacenDegradaAListadoVacio(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	require.NoError(t, env.db.Close())

	resp := env.get("/stocks")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Contains(t, body, "Database error. Please try again later.")
	assert.Contains(t, body, "No items in stock.")
	assert.Contains(t, body, "$0.00")
	assert.NotContains(t, body, "database is closed", "la causa no se muestra")
}

func TestStockAction_FormularioGET(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	resp := env.get(fmt.Sprintf("/stock/%d/remove", env.widget))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Contains(t, body, "Remove stock: Widget")
	assert.Contains(t, body, `value="remove"`)
}

func TestStockAction_ItemInexistenteVuelveAlListado(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	assertRedirect(t, env.get("/stock/999/add"), "/stocks")
	assert.Contains(t, bodyOf(t, env.get("/stocks")), "Item not found.")

	resp := env.postForm("/stock/999/add", url.Values{"action": {"add"}, "quantity": {"1"}})
	assertRedirect(t, resp, "/stocks")
	assert.Equal(t, 0, env.historyCount())
}

func TestStockAction_RemoveExitoso(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	resp := env.postForm(fmt.Sprintf("/stock/%d/remove", env.widget), url.Values{"action": {"remove"}, "quantity": {"2"}})
	assertRedirect(t, resp, "/stocks")
	assert.Equal(t, int64(1), env.quantityOf(env.widget))
	assert.Equal(t, 1, env.historyCount())

	body := bodyOf(t, env.get("/stocks"))
	assert.Contains(t, body, "Stock successfully removed.")
	assert.Contains(t, body, "$20.00", "1×10 + 2×5")

	// El flash se muestra una sola vez
	assert.NotContains(t, bodyOf(t, env.get("/stocks")), "Stock successfully removed.")
}

func TestStockAction_AddExitoso(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	resp := env.postForm(fmt.Sprintf("/stock/%d/add", env.gadget), url.Values{"action": {"add"}, "quantity": {"8"}})
	assertRedirect(t, resp, "/stocks")
	assert.Equal(t, int64(10), env.quantityOf(env.gadget))
	assert.Contains(t, bodyOf(t, env.get("/stocks")), "Stock successfully added.")
}

func TestStockAction_ErroresRedibujanFormularioSinEscrituras(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	cases := []struct {
		name   string
		path   string
		form   url.Values
		expect string
	}{
		{"stock insuficiente", "remove", url.Values{"action": {"remove"}, "quantity": {"4"}}, "Not enough stock to remove that amount."},
		{"cantidad no numérica", "add", url.Values{"action": {"add"}, "quantity": {"abc"}}, "Invalid quantity. Please enter a positive whole number."},
		{"cantidad cero", "add", url.Values{"action": {"add"}, "quantity": {"0"}}, "Invalid quantity. Please enter a positive whole number."},
		{"cantidad negativa", "remove", url.Values{"action": {"remove"}, "quantity": {"-1"}}, "Invalid quantity. Please enter a positive whole number."},
		{"acción inválida", "explode", url.Values{"action": {"explode"}, "quantity": {"1"}}, "Invalid action."},
		{"acción en mayúsculas", "add", url.Values{"action": {"ADD"}, "quantity": {"1"}}, "Invalid action."},
		{"acción con espacios", "add", url.Values{"action": {" add "}, "quantity": {"1"}}, "Invalid action."},
		{"acción de la URL en mayúsculas", "REMOVE", url.Values{"quantity": {"1"}}, "Invalid action."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.postForm(fmt.Sprintf("/stock/%d/%s", env.widget, tc.path), tc.form)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, bodyOf(t, resp), tc.expect)
			assert.Equal(t, int64(3), env.quantityOf(env.widget))
			assert.Equal(t, 0, env.historyCount())
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CSRF
// ──────────────────────────────────────────────────────────────────────────────

func TestCSRF_FormulariosIncluyenToken(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	body := bodyOf(t, env.get(fmt.Sprintf("/stock/%d/add", env.widget)))
	m := csrfField.FindStringSubmatch(body)
	require.Len(t, m, 2)
	assert.Equal(t, env.csrf, m[1], "el token se mantiene tras el login")
}

func TestCSRF_PostSinTokenNoModificaStock(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	path := fmt.Sprintf("/stock/%d/remove", env.widget)

	cases := map[string]url.Values{
		"sin token":      {"action": {"remove"}, "quantity": {"1"}},
		"token inválido": {"_csrf": {"no-es-el-token"}, "action": {"remove"}, "quantity": {"1"}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			resp := env.postFormRaw(path, form)
			resp.Body.Close()
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, int64(3), env.quantityOf(env.widget))
			assert.Equal(t, 0, env.historyCount())
		})
	}
}

func TestCSRF_LoginSinTokenNoCreaSesion(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postFormRaw("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assertRedirect(t, env.get("/stocks"), "/login")
}

func TestStockHistory_MasRecientePrimero(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	assert.Contains(t, bodyOf(t, env.get(fmt.Sprintf("/stock_history/%d", env.widget))), "No history for this item yet.")

	for _, form := range []url.Values{
		{"action": {"add"}, "quantity": {"5"}},
		{"action": {"remove"}, "quantity": {"7"}},
	} {
		resp := env.postForm(fmt.Sprintf("/stock/%d/%s", env.widget, form.Get("action")), form)
		assertRedirect(t, resp, "/stocks")
	}

	resp := env.get(fmt.Sprintf("/stock_history/%d", env.widget))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Contains(t, body, "History: Widget")
	removeAt := strings.Index(body, ">remove<")
	addAt := strings.Index(body, ">add<")
	require.True(t, removeAt > 0 && addAt > 0, "ambas entradas deben aparecer")
	assert.Less(t, removeAt, addAt, "la entrada más reciente va primero")
	assert.Contains(t, body, ">admin<")
}

func TestStockHistory_ItemInexistente(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	assertRedirect(t, env.get("/stock_history/999"), "/stocks")
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestExportaciones(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	resp := env.get("/stocks/report.pdf")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".pdf")
	assert.True(t, strings.HasPrefix(bodyOf(t, resp), "%PDF"))

	resp = env.get("/stocks/export.xlsx")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(bodyOf(t, resp), "PK"), "xlsx es un zip")
}

// ──────────────────────────────────────────────────────────────────────────────
// API JSON
// ──────────────────────────────────────────────────────────────────────────────

func (e *testEnv) apiToken() string {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(fmt.Sprintf(`{"username":%q,"password":%q}`, testUser, testPassword)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp := e.do(req)
	defer resp.Body.Close()
	require.Equal(e.t, http.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(e.t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(e.t, out.Token)
	assert.Equal(e.t, testUser, out.Username)
	return out.Token
}

func (e *testEnv) api(method, path, token, body string) *http.Response {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPI_LoginInvalido(t *testing.T) {
	env := newTestEnv(t)
	resp := env.api(http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Code)
}

func TestAPI_SinToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.api(http.MethodGet, "/api/stocks", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAPI_ListStock(t *testing.T) {
	env := newTestEnv(t)
	token := env.apiToken()

	resp := env.api(http.MethodGet, "/api/stocks", token, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StockListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Widget", out.Items[0].Name)
	assert.True(t, out.Items[0].Value.Equal(decimal.NewFromInt(30)))
	assert.True(t, out.TotalValue.Equal(decimal.NewFromInt(40)), out.TotalValue.String())
}

func TestAPI_ApplyChangeYErrores(t *testing.T) {
	env := newTestEnv(t)
	token := env.apiToken()
	path := func(action string) string { return fmt.Sprintf("/api/stocks/%d/%s", env.widget, action) }

	resp := env.api(http.MethodPost, path("remove"), token, `{"quantity":"99"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, resp).Code)

	resp = env.api(http.MethodPost, path("remove"), token, `{"quantity":"1.5"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", decodeError(t, resp).Code)

	for _, action := range []string{"explode", "ADD", "Remove"} {
		resp = env.api(http.MethodPost, path(action), token, `{"quantity":"1"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, action)
		assert.Equal(t, "INVALID_ACTION", decodeError(t, resp).Code, action)
	}

	resp = env.api(http.MethodPost, "/api/stocks/999/add", token, `{"quantity":"1"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ITEM_NOT_FOUND", decodeError(t, resp).Code)

	assert.Equal(t, int64(3), env.quantityOf(env.widget))
	assert.Equal(t, 0, env.historyCount())

	resp = env.api(http.MethodPost, path("remove"), token, `{"quantity":1}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ChangeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(3), out.PreviousQuantity)
	assert.Equal(t, int64(2), out.NewQuantity)
	assert.Equal(t, "remove", out.Action)
	assert.NotZero(t, out.HistoryID)
	assert.Equal(t, "Stock successfully removed.", out.Message)
}

func TestAPI_ItemHistory(t *testing.T) {
	env := newTestEnv(t)
	token := env.apiToken()

	resp := env.api(http.MethodPost, fmt.Sprintf("/api/stocks/%d/add", env.gadget), token, `{"quantity":"4"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.api(http.MethodGet, fmt.Sprintf("/api/stocks/%d/history", env.gadget), token, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ItemHistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(6), out.Item.Quantity)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "add", out.Entries[0].ChangeType)
	assert.Equal(t, int64(4), out.Entries[0].QuantityChanged)
	assert.Equal(t, testUser, out.Entries[0].ChangedBy)

	resp = env.api(http.MethodGet, "/api/stocks/999/history", token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ITEM_NOT_FOUND", decodeError(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyOf(t, resp), `"status":"ok"`)

	require.NoError(t, env.db.Close())
	resp = env.get("/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
