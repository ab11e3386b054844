package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int             `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	SupplierID   int             `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LowStockProduct is a row of the dashboard's low-stock list.
type LowStockProduct struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	SupplierName string `json:"supplier_name"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

/*
Schema MySQL for product table:
CREATE TABLE `products` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `sku` varchar(64) NOT NULL,
  `name` varchar(255) NOT NULL,
  `category_id` int(11) NULL,
  `cost` decimal(10,2) NOT NULL DEFAULT 0,
  `price` decimal(10,2) NOT NULL DEFAULT 0,
  `stock` int(11) NOT NULL DEFAULT 0,
  `supplier_id` int(11) NULL,
  `active` tinyint(1) NOT NULL DEFAULT 1,
  `created_at` timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (`id`),
  UNIQUE KEY `sku_idx` (`sku`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
