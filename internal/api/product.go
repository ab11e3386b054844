package api

import (
	"github.com/labstack/echo/v4"

	"pos-service/internal/entity"
)

// searchProduct --> GET /api?action=search_product&search=
func (h *Handler) searchProduct(c echo.Context) (*Result, error) {
	products, err := h.products.SearchProducts(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return nil, err
	}
	return &Result{Data: products}, nil
}

// getProduct --> GET /api?action=get_product&id=
func (h *Handler) getProduct(c echo.Context) (*Result, error) {
	id, err := queryInt(c, "id")
	if err != nil {
		return nil, err
	}
	product, err := h.products.GetProduct(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	return &Result{Data: product}, nil
}

// listProducts --> GET /api?action=list_products[&category_id=]
func (h *Handler) listProducts(c echo.Context) (*Result, error) {
	categoryID, err := queryInt(c, "category_id")
	if err != nil {
		return nil, err
	}
	products, err := h.products.ListProducts(c.Request().Context(), categoryID)
	if err != nil {
		return nil, err
	}
	return &Result{Data: products}, nil
}

func (h *Handler) listCategories(c echo.Context) (*Result, error) {
	categories, err := h.products.ListCategories(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &Result{Data: categories}, nil
}

// createProduct --> POST /api?action=create_product
func (h *Handler) createProduct(c echo.Context) (*Result, error) {
	var product entity.Product
	if err := bind(c, &product); err != nil {
		return nil, err
	}
	created, err := h.products.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "product created", Data: created}, nil
}

// updateProduct --> POST /api?action=update_product
func (h *Handler) updateProduct(c echo.Context) (*Result, error) {
	var product entity.Product
	if err := bind(c, &product); err != nil {
		return nil, err
	}
	if err := h.products.UpdateProduct(c.Request().Context(), &product); err != nil {
		return nil, err
	}
	return &Result{Message: "product updated"}, nil
}

// adjustStock --> POST /api?action=adjust_stock
func (h *Handler) adjustStock(c echo.Context) (*Result, error) {
	payload := struct {
		ID    int  `json:"id"`
		Stock *int `json:"stock"`
	}{}
	if err := bind(c, &payload); err != nil {
		return nil, err
	}
	if err := h.products.AdjustStock(c.Request().Context(), payload.ID, payload.Stock); err != nil {
		return nil, err
	}
	return &Result{Message: "stock updated"}, nil
}

// toggleProduct --> POST /api?action=toggle_product
func (h *Handler) toggleProduct(c echo.Context) (*Result, error) {
	var payload togglePayload
	if err := bind(c, &payload); err != nil {
		return nil, err
	}
	if err := h.products.SetActive(c.Request().Context(), payload.ID, payload.Active); err != nil {
		return nil, err
	}
	if payload.Active {
		return &Result{Message: "product activated"}, nil
	}
	return &Result{Message: "product deactivated"}, nil
}
