package api

import (
	"github.com/labstack/echo/v4"

	"pos-service/internal/entity"
)

const headerIdempotencyKey = "Idempotency-Key"

// processSale --> POST /api?action=process_sale
func (h *Handler) processSale(c echo.Context) (*Result, error) {
	var req entity.SaleRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	req.IdempotencyKey = c.Request().Header.Get(headerIdempotencyKey)

	order, err := h.sales.ProcessSale(c.Request().Context(), &req)
	if err != nil {
		return nil, err
	}
	return &Result{OrderID: order.ID, Data: order}, nil
}

// getOrder --> GET /api?action=get_order&id=
func (h *Handler) getOrder(c echo.Context) (*Result, error) {
	id, err := queryInt(c, "id")
	if err != nil {
		return nil, err
	}
	order, err := h.sales.GetOrder(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	return &Result{Data: order}, nil
}

func (h *Handler) listPaymentMethods(c echo.Context) (*Result, error) {
	methods, err := h.sales.ListPaymentMethods(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &Result{Data: methods}, nil
}

// getCustomers --> GET /api?action=get_customers
func (h *Handler) getCustomers(c echo.Context) (*Result, error) {
	customers, err := h.customers.GetCustomers(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &Result{Data: customers}, nil
}

// getDashboard --> GET /api?action=dashboard
func (h *Handler) getDashboard(c echo.Context) (*Result, error) {
	dashboard, err := h.dashboard.GetDashboard(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &Result{Data: dashboard}, nil
}
