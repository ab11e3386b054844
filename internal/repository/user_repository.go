package repository

import (
	"context"
	"database/sql"
	"errors"

	"pos-service/internal/entity"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, name, email, role_id, active FROM employees WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &user.RoleID, &user.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT e.id, e.name, e.email, e.role_id, COALESCE(r.name, ''), e.active
		FROM employees e
		LEFT JOIN roles r ON e.role_id = r.id
		ORDER BY e.name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		user := &entity.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.RoleID, &user.RoleName, &user.Active); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// EmailExists reports whether another employee (id != excludeID) already uses email.
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID int) (bool, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `SELECT id FROM employees WHERE email = ? AND id != ? LIMIT 1`, email, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO employees (name, email, password, role_id, active) VALUES (?, ?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.RoleID)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	user.Active = true
	return user, nil
}

// UpdateUser rewrites name, email and role. The stored hash is replaced only
// when user.PasswordHash is set.
func (r *UserRepository) UpdateUser(ctx context.Context, user *entity.User) error {
	var res sql.Result
	var err error
	if user.PasswordHash != "" {
		query := `UPDATE employees SET name = ?, email = ?, password = ?, role_id = ? WHERE id = ?`
		res, err = r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.RoleID, user.ID)
	} else {
		query := `UPDATE employees SET name = ?, email = ?, role_id = ? WHERE id = ?`
		res, err = r.db.ExecContext(ctx, query, user.Name, user.Email, user.RoleID, user.ID)
	}
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *UserRepository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE employees SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *UserRepository) GetRoles(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []entity.Role{}
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
