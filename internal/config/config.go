package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the insider-feed service
type Config struct {
	// SEC API
	SECAPIKey   string // API key for both the stream and the query API
	StreamURL   string // websocket endpoint for the real-time filing stream
	QueryAPIURL string // insider trading query API endpoint

	// Stream connection
	PingInterval         time.Duration // interval between keepalive pings
	PongTimeout          time.Duration // how long to wait for a pong acknowledgement
	ReconnectWait        time.Duration // backoff between reconnect attempts
	MaxReconnectAttempts int           // consecutive failures before giving up

	// Pipeline
	SettleDelay   time.Duration // wait before querying the detail API (its index lags the stream)
	OfficerTitles []string      // exact titles treated as CEO-equivalent

	// Email notifications
	SMTPServer      string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	FromEmail       string
	EmailRecipients []string
	EmailEnabled    bool

	// SMS notifications (Twilio)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSRecipients    []string
	SMSEnabled       bool

	// Kafka
	KafkaBrokers    []string
	KafkaTradeTopic string // extracted trades for downstream services (e.g. alert-service)
	KafkaEnabled    bool

	// Storage
	DatabasePath   string
	SectorDataPath string // static ticker -> sector/market-cap mapping
}

// defaultOfficerTitles are accepted as CEO-equivalent in addition to any
// title containing the substring "CEO".
var defaultOfficerTitles = []string{
	"Chief Executive Officer",
	"CHIEF EXECUTIVE OFFICER",
	"President and Chief Executive Officer",
	"Chief Executive Officer and President",
	"President & Chief Executive Officer",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// SEC API
		SECAPIKey:   getEnv("SEC_API_KEY", ""),
		StreamURL:   getEnv("SEC_STREAM_URL", "wss://stream.sec-api.io"),
		QueryAPIURL: getEnv("SEC_QUERY_API_URL", "https://api.sec-api.io/insider-trading"),

		// Stream connection
		PingInterval:         getEnvSeconds("FEED_PING_INTERVAL_SEC", 30),
		PongTimeout:          getEnvSeconds("FEED_PONG_TIMEOUT_SEC", 5),
		ReconnectWait:        getEnvSeconds("FEED_RECONNECT_WAIT_SEC", 5),
		MaxReconnectAttempts: getEnvInt("FEED_MAX_RECONNECT_ATTEMPTS", 10),

		// Pipeline
		SettleDelay:   getEnvSeconds("FEED_SETTLE_DELAY_SEC", 15),
		OfficerTitles: getEnvList("FEED_OFFICER_TITLES", defaultOfficerTitles),

		// Email
		SMTPServer:      getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPUser:        getEnv("SMTP_USER", ""),
		SMTPPass:        getEnv("SMTP_PASS", ""),
		FromEmail:       getEnv("FROM_EMAIL", ""),
		EmailRecipients: getEnvList("EMAIL_RECIPIENTS", nil),

		// SMS
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		SMSRecipients:    getEnvList("SMS_RECIPIENTS", nil),

		// Kafka
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:19092"), ","),
		KafkaTradeTopic: getEnv("KAFKA_TRADE_TOPIC", "trading.insider-trades"),
		KafkaEnabled:    getEnvBool("KAFKA_ENABLED", false),

		// Storage
		DatabasePath:   getEnv("DATABASE_PATH", "data/insider_trades.db"),
		SectorDataPath: getEnv("SECTOR_DATA_PATH", "data/sectors.json"),
	}

	cfg.EmailEnabled = cfg.SMTPUser != "" && cfg.SMTPPass != "" && len(cfg.EmailRecipients) > 0
	cfg.SMSEnabled = cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" &&
		cfg.TwilioFromNumber != "" && len(cfg.SMSRecipients) > 0

	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}

	// Validate required fields
	if cfg.SECAPIKey == "" {
		return nil, fmt.Errorf("SEC_API_KEY is required")
	}
	if cfg.MaxReconnectAttempts <= 0 {
		return nil, fmt.Errorf("FEED_MAX_RECONNECT_ATTEMPTS must be positive")
	}

	return cfg, nil
}

// StreamEndpoint returns the stream URL with the API key applied
func (c *Config) StreamEndpoint() string {
	return c.StreamURL + "?apiKey=" + c.SECAPIKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Second
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
