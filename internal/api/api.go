package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"pos-service/internal/logging"
	"pos-service/internal/service"
)

var logger = logging.New("api")

// Action names one operation of the /api endpoint.
type Action string

const (
	ActionSearchProduct      Action = "search_product"
	ActionGetCustomers       Action = "get_customers"
	ActionProcessSale        Action = "process_sale"
	ActionGetOrder           Action = "get_order"
	ActionCreateProduct      Action = "create_product"
	ActionUpdateProduct      Action = "update_product"
	ActionGetProduct         Action = "get_product"
	ActionListProducts       Action = "list_products"
	ActionAdjustStock        Action = "adjust_stock"
	ActionToggleProduct      Action = "toggle_product"
	ActionCreateUser         Action = "create_user"
	ActionUpdateUser         Action = "update_user"
	ActionGetUser            Action = "get_user"
	ActionToggleUser         Action = "toggle_user"
	ActionListUsers          Action = "list_users"
	ActionCreateSupplier     Action = "create_supplier"
	ActionUpdateSupplier     Action = "update_supplier"
	ActionGetSupplier        Action = "get_supplier"
	ActionListSuppliers      Action = "list_suppliers"
	ActionListCategories     Action = "list_categories"
	ActionListRoles          Action = "list_roles"
	ActionListPaymentMethods Action = "list_payment_methods"
	ActionDashboard          Action = "dashboard"
)

// Result is the body of every /api response.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	OrderID int         `json:"order_id,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type actionFunc func(c echo.Context) (*Result, error)

type route struct {
	method string
	fn     actionFunc
}

// Handler dispatches /api?action=<name> to a closed set of actions.
type Handler struct {
	products  *service.ProductService
	sales     *service.SaleService
	users     *service.UserService
	suppliers *service.SupplierService
	customers *service.CustomerService
	dashboard *service.DashboardService
	routes    map[Action]route
}

// NewHandler creates a new instance of Handler.
func NewHandler(products *service.ProductService, sales *service.SaleService, users *service.UserService,
	suppliers *service.SupplierService, customers *service.CustomerService, dashboard *service.DashboardService) *Handler {
	h := &Handler{
		products:  products,
		sales:     sales,
		users:     users,
		suppliers: suppliers,
		customers: customers,
		dashboard: dashboard,
	}

	h.routes = map[Action]route{
		ActionSearchProduct:      {http.MethodGet, h.searchProduct},
		ActionGetCustomers:       {http.MethodGet, h.getCustomers},
		ActionProcessSale:        {http.MethodPost, h.processSale},
		ActionGetOrder:           {http.MethodGet, h.getOrder},
		ActionCreateProduct:      {http.MethodPost, h.createProduct},
		ActionUpdateProduct:      {http.MethodPost, h.updateProduct},
		ActionGetProduct:         {http.MethodGet, h.getProduct},
		ActionListProducts:       {http.MethodGet, h.listProducts},
		ActionAdjustStock:        {http.MethodPost, h.adjustStock},
		ActionToggleProduct:      {http.MethodPost, h.toggleProduct},
		ActionCreateUser:         {http.MethodPost, h.createUser},
		ActionUpdateUser:         {http.MethodPost, h.updateUser},
		ActionGetUser:            {http.MethodGet, h.getUser},
		ActionToggleUser:         {http.MethodPost, h.toggleUser},
		ActionListUsers:          {http.MethodGet, h.listUsers},
		ActionCreateSupplier:     {http.MethodPost, h.createSupplier},
		ActionUpdateSupplier:     {http.MethodPost, h.updateSupplier},
		ActionGetSupplier:        {http.MethodGet, h.getSupplier},
		ActionListSuppliers:      {http.MethodGet, h.listSuppliers},
		ActionListCategories:     {http.MethodGet, h.listCategories},
		ActionListRoles:          {http.MethodGet, h.listRoles},
		ActionListPaymentMethods: {http.MethodGet, h.listPaymentMethods},
		ActionDashboard:          {http.MethodGet, h.getDashboard},
	}
	return h
}

// Register mounts the action endpoint and the health check on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/api", h.Dispatch)
	e.POST("/api", h.Dispatch)

	e.GET("/pos/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "pos-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
}

// Dispatch runs the action named by the "action" query parameter. Errors are
// reported in the body with HTTP 200, which is what register clients expect.
func (h *Handler) Dispatch(c echo.Context) error {
	action := Action(c.QueryParam("action"))

	rt, ok := h.routes[action]
	if !ok {
		return c.JSON(http.StatusOK, &Result{Error: "invalid action"})
	}
	if c.Request().Method != rt.method {
		return c.JSON(http.StatusOK, &Result{Error: "method not allowed"})
	}

	res, err := rt.fn(c)
	if err != nil {
		return c.JSON(http.StatusOK, &Result{Error: h.errorMessage(c, action, err)})
	}
	res.Success = true
	return c.JSON(http.StatusOK, res)
}

// errorMessage exposes the message of domain errors. Anything else is logged
// and replaced by a generic message.
func (h *Handler) errorMessage(c echo.Context, action Action, err error) string {
	var (
		validationErr  *service.ValidationError
		conflictErr    *service.ConflictError
		notFoundErr    *service.NotFoundError
		transactionErr *service.TransactionError
	)
	switch {
	case errors.As(err, &transactionErr):
		return transactionErr.Error()
	case errors.As(err, &validationErr), errors.As(err, &conflictErr), errors.As(err, &notFoundErr):
		return err.Error()
	}

	logger.Error().Err(err).
		Str("action", string(action)).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("Unhandled API error")
	return "internal server error"
}

// bind decodes the JSON body into v.
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return &service.ValidationError{Message: "invalid request payload"}
	}
	return nil
}

// queryInt reads an optional integer query parameter; missing means 0.
func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: "invalid " + name}
	}
	return n, nil
}

type togglePayload struct {
	ID     int  `json:"id"`
	Active bool `json:"active"`
}
