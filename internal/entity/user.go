package entity

// User is an employee account. PasswordHash never leaves the server.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"-"`
	RoleID       int    `json:"role_id"`
	RoleName     string `json:"role_name,omitempty"`
	Active       bool   `json:"active"`
}

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

/*
Mysql Schema:

CREATE TABLE employees (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	role_id INT NOT NULL,
	active TINYINT(1) NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX email_idx ON employees(email);
*/
