package config

import (
	"poolshop_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "PoolShop_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8082"),
				FrontendURL:    getEnvAsString("FRONTEND_URL", "http://localhost:3000"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			},
			Cors: &structs.CorsConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
				AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
				AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "Content-Disposition"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Shop: &structs.ShopConfig{
				Name:              getEnvAsString("SHOP_NAME", "PiscinePro"),
				SupportEmail:      getEnvAsString("SHOP_EMAIL", "contact@piscinepro.fr"),
				CurrencyLocale:    getEnvAsString("CURRENCY_LOCALE", "fr-FR"),
				CurrencySymbol:    getEnvAsString("CURRENCY_SYMBOL", "€"),
				LowStockThreshold: getEnvAsInt("LOW_STOCK_THRESHOLD", 5),
				SeedDemoData:      getEnvAsBool("SEED_DEMO_DATA", true),
			},
			Fulfillment: &structs.FulfillmentConfig{
				AllowBackward: getEnvAsBool("FULFILLMENT_ALLOW_BACKWARD", false),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
				RPS:     getEnvAsFloat("RATE_LIMIT_RPS", 10),
				Burst:   getEnvAsInt("RATE_LIMIT_BURST", 20),
			},
		}
	})
	return configInstance
}

// GetLogLevel honours LOG_LEVEL, otherwise logs at info in production and
// debug elsewhere.
func GetLogLevel() string {
	if level := getEnvAsString("LOG_LEVEL", ""); level != "" {
		return level
	}
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}
