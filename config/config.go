package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	StorageDriver string
	DBURL         string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	GeminiAPIKey string
	GeminiModel  string

	Twilio          TwilioConfig
	OwnerPhone      string
	NotifyOnReady   bool
	DailyReportCron string

	Shop               ShopConfig
	PhoneCountryPrefix string
	CORSOrigins        []string
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

type ShopConfig struct {
	Name     string
	TaxID    string
	Address  string
	Phone    string
	Currency string
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "carwash.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "carwash")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("NOTIFY_ON_READY", false)
	v.SetDefault("DAILY_REPORT_CRON", "0 20 * * *")
	v.SetDefault("SHOP_NAME", "404 Studio Xpress")
	v.SetDefault("SHOP_TAX_ID", "20601234567")
	v.SetDefault("SHOP_ADDRESS", "Av. Principal 123, Lima")
	v.SetDefault("SHOP_PHONE", "987 654 321")
	v.SetDefault("CURRENCY_SYMBOL", "S/")
	v.SetDefault("PHONE_COUNTRY_PREFIX", "51")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	geminiKey := strings.TrimSpace(v.GetString("GEMINI_API_KEY"))
	if geminiKey == "" {
		geminiKey = strings.TrimSpace(v.GetString("API_KEY"))
	}

	return Config{
		Port:        v.GetString("PORT"),
		Environment: strings.ToLower(v.GetString("ENVIRONMENT")),
		LogLevel:    v.GetString("LOG_LEVEL"),

		StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DBURL:         v.GetString("DB_URL"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisPrefix:   v.GetString("REDIS_PREFIX"),

		GeminiAPIKey: geminiKey,
		GeminiModel:  v.GetString("GEMINI_MODEL"),

		Twilio: TwilioConfig{
			AccountSID:     v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:      v.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber:    v.GetString("TWILIO_PHONE_NUMBER"),
			WhatsAppNumber: v.GetString("TWILIO_WHATSAPP_NUMBER"),
		},
		OwnerPhone:      v.GetString("OWNER_PHONE"),
		NotifyOnReady:   v.GetBool("NOTIFY_ON_READY"),
		DailyReportCron: strings.TrimSpace(v.GetString("DAILY_REPORT_CRON")),

		Shop: ShopConfig{
			Name:     v.GetString("SHOP_NAME"),
			TaxID:    v.GetString("SHOP_TAX_ID"),
			Address:  v.GetString("SHOP_ADDRESS"),
			Phone:    v.GetString("SHOP_PHONE"),
			Currency: v.GetString("CURRENCY_SYMBOL"),
		},
		PhoneCountryPrefix: v.GetString("PHONE_COUNTRY_PREFIX"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
