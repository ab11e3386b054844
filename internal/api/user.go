package api

import (
	"github.com/labstack/echo/v4"

	"pos-service/internal/entity"
)

// getUser --> GET /api?action=get_user&id=
func (h *Handler) getUser(c echo.Context) (*Result, error) {
	id, err := queryInt(c, "id")
	if err != nil {
		return nil, err
	}
	user, err := h.users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	return &Result{Data: user}, nil
}

func (h *Handler) listUsers(c echo.Context) (*Result, error) {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &Result{Data: users}, nil
}

func (h *Handler) listRoles(c echo.Context) (*Result, error) {
	roles, err := h.users.ListRoles(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &Result{Data: roles}, nil
}

// createUser --> POST /api?action=create_user
func (h *Handler) createUser(c echo.Context) (*Result, error) {
	var user entity.User
	if err := bind(c, &user); err != nil {
		return nil, err
	}
	created, err := h.users.CreateUser(c.Request().Context(), &user)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "user created", Data: created}, nil
}

// updateUser --> POST /api?action=update_user
func (h *Handler) updateUser(c echo.Context) (*Result, error) {
	var user entity.User
	if err := bind(c, &user); err != nil {
		return nil, err
	}
	if err := h.users.UpdateUser(c.Request().Context(), &user); err != nil {
		return nil, err
	}
	return &Result{Message: "user updated"}, nil
}

// toggleUser --> POST /api?action=toggle_user
func (h *Handler) toggleUser(c echo.Context) (*Result, error) {
	var payload togglePayload
	if err := bind(c, &payload); err != nil {
		return nil, err
	}
	if err := h.users.SetActive(c.Request().Context(), payload.ID, payload.Active); err != nil {
		return nil, err
	}
	if payload.Active {
		return &Result{Message: "user activated"}, nil
	}
	return &Result{Message: "user deactivated"}, nil
}
