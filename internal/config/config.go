package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Sale     Sale     `yaml:"sale"`
	Log      Log      `yaml:"log"`
}

type Server struct {
	Port            string        `yaml:"port"`
	RateLimit       float64       `yaml:"rate_limit"`
	RateBurst       int           `yaml:"rate_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Database struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type Redis struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	ProductTTL     time.Duration `yaml:"product_ttl"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type Kafka struct {
	Brokers        []string      `yaml:"brokers"`
	Topic          string        `yaml:"topic"`
	GroupID        string        `yaml:"group_id"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

type Sale struct {
	TaxRate            decimal.Decimal `yaml:"tax_rate"`
	DefaultCustomerID  int             `yaml:"default_customer_id"`
	DefaultEmployeeID  int             `yaml:"default_employee_id"`
	AllowNegativeStock bool            `yaml:"allow_negative_stock"`
	LowStockThreshold  int             `yaml:"low_stock_threshold"`
	BcryptCost         int             `yaml:"bcrypt_cost"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file or env override is given.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:            "8080",
			RateLimit:       10,
			RateBurst:       20,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Host:            "127.0.0.1",
			Port:            "3306",
			User:            "root",
			Name:            "pos_db",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: Redis{
			ProductTTL:     5 * time.Minute,
			IdempotencyTTL: 24 * time.Hour,
		},
		Kafka: Kafka{
			Topic:          "pos-events",
			GroupID:        "pos-stock-watcher",
			PublishTimeout: 500 * time.Millisecond,
		},
		Sale: Sale{
			TaxRate:           decimal.RequireFromString("0.16"),
			DefaultCustomerID: 1,
			DefaultEmployeeID: 1,
			LowStockThreshold: 5,
			BcryptCost:        10,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional YAML file, a .env
// file in the working directory and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASS")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	if rate := os.Getenv("TAX_RATE"); rate != "" {
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return fmt.Errorf("TAX_RATE: %w", err)
		}
		cfg.Sale.TaxRate = d
	}
	if threshold := os.Getenv("LOW_STOCK_THRESHOLD"); threshold != "" {
		n, err := strconv.Atoi(threshold)
		if err != nil {
			return fmt.Errorf("LOW_STOCK_THRESHOLD: %w", err)
		}
		cfg.Sale.LowStockThreshold = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Database.Name == "" {
		return errors.New("database name is required")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return errors.New("server rate_limit and rate_burst must be positive")
	}
	if c.Sale.TaxRate.IsNegative() {
		return errors.New("sale.tax_rate must not be negative")
	}
	if c.Sale.DefaultCustomerID <= 0 || c.Sale.DefaultEmployeeID <= 0 {
		return errors.New("sale default customer and employee ids must be positive")
	}
	if c.Sale.BcryptCost < 4 || c.Sale.BcryptCost > 31 {
		return fmt.Errorf("sale.bcrypt_cost %d out of range", c.Sale.BcryptCost)
	}
	return nil
}

// DSN returns the go-sql-driver/mysql connection string.
func (d Database) DSN() string {
	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = d.Host + ":" + d.Port
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.ClientFoundRows = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
