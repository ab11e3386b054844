package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-service/internal/cache"
	"pos-service/internal/config"
	"pos-service/internal/publisher"
	"pos-service/internal/repository"
	"pos-service/internal/service"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	OrderID int             `json:"order_id"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	cfg := config.Default()
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productCache := cache.NewProductCache(nil, cfg.Redis.ProductTTL)

	h := NewHandler(
		service.NewProductService(productRepo, productCache, publisher.Noop{}),
		service.NewSaleService(repository.NewStore(db), productRepo, orderRepo, productCache,
			cache.NewIdempotencyGuard(nil, cfg.Redis.IdempotencyTTL), publisher.Noop{}, cfg.Sale),
		service.NewUserService(repository.NewUserRepository(db), 4),
		service.NewSupplierService(repository.NewSupplierRepository(db)),
		service.NewCustomerService(repository.NewCustomerRepository(db)),
		service.NewDashboardService(productRepo, orderRepo, cfg.Sale.LowStockThreshold),
	)

	e := echo.New()
	h.Register(e)
	return e, mock
}

func do(t *testing.T, e *echo.Echo, method, target, body string) response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestDispatchUnknownAction(t *testing.T) {
	e, _ := newTestServer(t)

	res := do(t, e, http.MethodGet, "/api?action=drop_tables", "")
	assert.False(t, res.Success)
	assert.Equal(t, "invalid action", res.Error)

	res = do(t, e, http.MethodGet, "/api", "")
	assert.Equal(t, "invalid action", res.Error)
}

func TestDispatchWrongMethod(t *testing.T) {
	e, _ := newTestServer(t)

	res := do(t, e, http.MethodGet, "/api?action=process_sale", "")
	assert.False(t, res.Success)
	assert.Equal(t, "method not allowed", res.Error)

	res = do(t, e, http.MethodPost, "/api?action=list_products", `{}`)
	assert.Equal(t, "method not allowed", res.Error)
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/pos/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "pos-service", body["service"])
}

func TestProcessSaleReturnsOrderID(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	res := do(t, e, http.MethodPost, "/api?action=process_sale", `{"payment_method_id":1,"items":[]}`)
	assert.True(t, res.Success)
	assert.Equal(t, 8, res.OrderID)
}

func TestProcessSaleMissingPaymentMethod(t *testing.T) {
	e, _ := newTestServer(t)

	res := do(t, e, http.MethodPost, "/api?action=process_sale", `{"items":[]}`)
	assert.False(t, res.Success)
	assert.Equal(t, "payment method is required", res.Error)
}

func TestProcessSaleFailureCarriesUnderlyingMessage(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sku", "name", "price", "stock", "active"}))
	mock.ExpectRollback()

	res := do(t, e, http.MethodPost, "/api?action=process_sale", `{"payment_method_id":1,"items":[{"id":3,"qty":1,"price":"9.99"}]}`)
	assert.False(t, res.Success)
	assert.Equal(t, "sale could not be processed: product not found", res.Error)
}

func TestMalformedJSON(t *testing.T) {
	e, _ := newTestServer(t)

	res := do(t, e, http.MethodPost, "/api?action=create_product", `{"sku":`)
	assert.False(t, res.Success)
	assert.Equal(t, "invalid request payload", res.Error)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM products WHERE sku = ?")).
		WithArgs("CAF-01", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	res := do(t, e, http.MethodPost, "/api?action=create_product", `{"sku":"CAF-01","name":"Coffee","price":"120.00"}`)
	assert.False(t, res.Success)
	assert.Equal(t, "SKU already exists", res.Error)
}

func TestGetProductInvalidID(t *testing.T) {
	e, _ := newTestServer(t)

	res := do(t, e, http.MethodGet, "/api?action=get_product&id=abc", "")
	assert.False(t, res.Success)
	assert.Equal(t, "invalid id", res.Error)
}

func TestUntypedErrorsAreHidden(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM categories")).
		WillReturnError(errors.New("Error 1146: Table 'pos_db.categories' doesn't exist"))

	res := do(t, e, http.MethodGet, "/api?action=list_categories", "")
	assert.False(t, res.Success)
	assert.Equal(t, "internal server error", res.Error)
}

func TestToggleUser(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET active = ? WHERE id = ?")).
		WithArgs(false, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res := do(t, e, http.MethodPost, "/api?action=toggle_user", `{"id":3,"active":false}`)
	assert.True(t, res.Success)
	assert.Equal(t, "user deactivated", res.Message)
}

func TestListPaymentMethods(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM payment_methods")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "cash").AddRow(2, "card"))

	res := do(t, e, http.MethodGet, "/api?action=list_payment_methods", "")
	require.True(t, res.Success)
	assert.JSONEq(t, `[{"id":1,"name":"cash"},{"id":2,"name":"card"}]`, string(res.Data))
}

func TestAdjustStockRejectsNegative(t *testing.T) {
	e, _ := newTestServer(t)

	res := do(t, e, http.MethodPost, "/api?action=adjust_stock", `{"id":4,"stock":-1}`)
	assert.False(t, res.Success)
	assert.Equal(t, "stock cannot be negative", res.Error)
}
