package structs

import "time"

type Config struct {
	Server      *ServerConfig
	Cors        *CorsConfig
	Shop        *ShopConfig
	Fulfillment *FulfillmentConfig
	RateLimit   *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // PoolShop
	Environment    string        // development, production
	Port           string        // :8082
	FrontendURL    string        // used for links in emails
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type ShopConfig struct {
	Name              string
	SupportEmail      string
	CurrencyLocale    string // BCP 47 tag, e.g. fr-FR
	CurrencySymbol    string
	LowStockThreshold int
	SeedDemoData      bool
}

type FulfillmentConfig struct {
	// AllowBackward permits supplier and purchase order statuses to move back,
	// e.g. Shipped -> Sent, for manual corrections.
	AllowBackward bool
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}
