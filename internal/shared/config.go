package shared

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	StripeKey string

	SpreadsheetID     string
	CredentialsJSON   string
	ReservationsRange string
	TypesRange        string
	SheetsRPS         int

	Currency   string
	SuccessURL string
	CancelURL  string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}

	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ""),
		StripeKey:         env("STRIPE_API_KEY", ""),
		SpreadsheetID:     env("GOOGLE_SPREADSHEET_ID", ""),
		CredentialsJSON:   env("GOOGLE_CREDENTIALS_JSON", ""),
		ReservationsRange: env("RESERVATIONS_RANGE", "Reservations!A2:L"),
		TypesRange:        env("RESERVATION_TYPES_RANGE", "ReservationTypes!A:F"),
		SheetsRPS:         atoi("SHEETS_RPS", 2),
		Currency:          env("PAYMENT_CURRENCY", "GBP"),
		SuccessURL:        env("PAYMENT_SUCCESS_URL", "https://example.com/success"),
		CancelURL:         env("PAYMENT_CANCEL_URL", "https://example.com/cancel"),
	}
	if c.StripeKey == "" {
		log.Warn().Msg("STRIPE_API_KEY is empty")
	}
	if c.SpreadsheetID == "" {
		log.Warn().Msg("GOOGLE_SPREADSHEET_ID is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
