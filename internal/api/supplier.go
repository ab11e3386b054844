package api

import (
	"github.com/labstack/echo/v4"

	"pos-service/internal/entity"
)

// getSupplier --> GET /api?action=get_supplier&id=
func (h *Handler) getSupplier(c echo.Context) (*Result, error) {
	id, err := queryInt(c, "id")
	if err != nil {
		return nil, err
	}
	supplier, err := h.suppliers.GetSupplier(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	return &Result{Data: supplier}, nil
}

// listSuppliers --> GET /api?action=list_suppliers[&active=1]
func (h *Handler) listSuppliers(c echo.Context) (*Result, error) {
	activeOnly := c.QueryParam("active") == "1" || c.QueryParam("active") == "true"
	suppliers, err := h.suppliers.ListSuppliers(c.Request().Context(), activeOnly)
	if err != nil {
		return nil, err
	}
	return &Result{Data: suppliers}, nil
}

// createSupplier --> POST /api?action=create_supplier
func (h *Handler) createSupplier(c echo.Context) (*Result, error) {
	var supplier entity.Supplier
	if err := bind(c, &supplier); err != nil {
		return nil, err
	}
	created, err := h.suppliers.CreateSupplier(c.Request().Context(), &supplier)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "supplier created", Data: created}, nil
}

// updateSupplier --> POST /api?action=update_supplier
func (h *Handler) updateSupplier(c echo.Context) (*Result, error) {
	var supplier entity.Supplier
	if err := bind(c, &supplier); err != nil {
		return nil, err
	}
	if err := h.suppliers.UpdateSupplier(c.Request().Context(), &supplier); err != nil {
		return nil, err
	}
	return &Result{Message: "supplier updated"}, nil
}
