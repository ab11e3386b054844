package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

var tables = []struct {
	name  string
	query string
}{
	{"roles", `
		CREATE TABLE IF NOT EXISTS roles (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"categories", `
		CREATE TABLE IF NOT EXISTS categories (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"payment_methods", `
		CREATE TABLE IF NOT EXISTS payment_methods (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"suppliers", `
		CREATE TABLE IF NOT EXISTS suppliers (
			id INT AUTO_INCREMENT PRIMARY KEY,
			company VARCHAR(150) NOT NULL,
			contact VARCHAR(150) NOT NULL,
			phone VARCHAR(30) NULL,
			email VARCHAR(255) NULL,
			active TINYINT(1) NOT NULL DEFAULT 1
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"customers", `
		CREATE TABLE IF NOT EXISTS customers (
			id INT AUTO_INCREMENT PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NULL,
			phone VARCHAR(30) NULL,
			email VARCHAR(255) NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"employees", `
		CREATE TABLE IF NOT EXISTS employees (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			role_id INT NOT NULL,
			active TINYINT(1) NOT NULL DEFAULT 1,
			FOREIGN KEY (role_id) REFERENCES roles(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			sku VARCHAR(64) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			category_id INT NULL,
			cost DECIMAL(10,2) NOT NULL DEFAULT 0,
			price DECIMAL(10,2) NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			supplier_id INT NULL,
			active TINYINT(1) NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES categories(id),
			FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			customer_id INT NOT NULL,
			employee_id INT NOT NULL,
			payment_method_id INT NOT NULL,
			type VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL,
			subtotal DECIMAL(10,2) NOT NULL,
			tax DECIMAL(10,2) NOT NULL,
			total DECIMAL(10,2) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX created_at_idx (created_at),
			FOREIGN KEY (customer_id) REFERENCES customers(id),
			FOREIGN KEY (employee_id) REFERENCES employees(id),
			FOREIGN KEY (payment_method_id) REFERENCES payment_methods(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"order_details", `
		CREATE TABLE IF NOT EXISTS order_details (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Reference rows the checkout relies on: customer 1 is the walk-in
// "general public" customer, employee 1 is the shared register account (its
// password hash is not a valid bcrypt hash, so it can never authenticate) and
// payment methods 1/2 are cash/card.
var seeds = []string{
	`INSERT IGNORE INTO roles (id, name) VALUES (1, 'admin'), (2, 'cashier'), (3, 'warehouse')`,
	`INSERT IGNORE INTO payment_methods (id, name) VALUES (1, 'cash'), (2, 'card')`,
	`INSERT IGNORE INTO customers (id, first_name, last_name) VALUES (1, 'General', 'Public')`,
	`INSERT IGNORE INTO employees (id, name, email, password, role_id, active) VALUES (1, 'Front Register', 'register@localhost', '!', 2, TRUE)`,
}

// AutoMigrate creates every table that does not exist yet and inserts the
// reference rows. Each statement is retried up to retries times.
func AutoMigrate(ctx context.Context, db *sql.DB, retries int) error {
	for _, t := range tables {
		if err := execWithRetry(ctx, db, t.query, retries); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		log.Debug().Msgf("Table %s ready", t.name)
	}

	for _, seed := range seeds {
		if err := execWithRetry(ctx, db, seed, retries); err != nil {
			return fmt.Errorf("seed reference data: %w", err)
		}
	}

	log.Info().Int("tables", len(tables)).Msg("Migrations applied")
	return nil
}

func execWithRetry(ctx context.Context, db *sql.DB, query string, retries int) error {
	_, err := db.ExecContext(ctx, query)
	for i := 0; err != nil && i < retries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
		_, err = db.ExecContext(ctx, query)
	}
	return err
}
