package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	RabbitMQ    RabbitMQConfig
	Kafka       KafkaConfig
	Midtrans    MidtransConfig
	Order       OrderConfig
	Internal    InternalConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type MidtransConfig struct {
	ServerKey     string
	ClientKey     string
	IsProduction  bool
	Timeout       time.Duration
	SkipSignature bool
}

type OrderConfig struct {
	ShippingFee       decimal.Decimal
	PriceTolerance    decimal.Decimal
	PaymentExpiration time.Duration
	FallbackEmail     string
}

// InternalConfig is used between the API and the expiry consumer.
type InternalConfig struct {
	APIKey string
	APIURL string
}

// Load reads configuration from environment variables. A .env file is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 40*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getInt("DB_PORT", 3306),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "storefront"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
		},
		Kafka: KafkaConfig{
			Brokers: getList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_ORDER_TOPIC", "storefront.orders"),
		},
		Midtrans: MidtransConfig{
			ServerKey:     getEnv("MIDTRANS_SERVER_KEY", ""),
			ClientKey:     getEnv("MIDTRANS_CLIENT_KEY", ""),
			IsProduction:  getBool("MIDTRANS_IS_PRODUCTION", false),
			Timeout:       getDuration("MIDTRANS_TIMEOUT", 20*time.Second),
			SkipSignature: getBool("MIDTRANS_SKIP_SIGNATURE", false),
		},
		Order: OrderConfig{
			ShippingFee:       getDecimal("CHECKOUT_SHIPPING_FEE", decimal.NewFromInt(10000)),
			PriceTolerance:    getDecimal("CHECKOUT_PRICE_TOLERANCE", decimal.Zero),
			PaymentExpiration: getDuration("CHECKOUT_PAYMENT_EXPIRATION", 24*time.Hour),
			FallbackEmail:     getEnv("CHECKOUT_FALLBACK_EMAIL", "customer@threeofkind.supply"),
		},
		Internal: InternalConfig{
			APIKey: getEnv("INTERNAL_API_KEY", ""),
			APIURL: getEnv("INTERNAL_API_URL", "http://localhost:8080"),
		},
	}
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
