package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSMTPPort is used when SMTP_PORT is not provided.
const DefaultSMTPPort = 587

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	LogLevel         string
	CORSAllowOrigins string
	// ProxyHeader names the header carrying the client IP when running behind a proxy.
	ProxyHeader    string
	TrustedProxies []string
	DatabaseURL      string
	DatabaseName     string
	RedisURL         string
	NATSURL          string
	NATSSubject      string
	Mail             MailConfig
	Contact          ContactConfig
}

// MailConfig describes the SMTP account used for confirmation emails.
type MailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	SenderName string
}

// Configured reports whether every credential required to send mail is present.
func (m MailConfig) Configured() bool {
	return m.Host != "" && m.User != "" && m.Password != "" && m.From != ""
}

// ContactConfig tunes the contact submission endpoint.
type ContactConfig struct {
	BookingURL string
	RateLimit  int
	RateWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "KMA Global API")
	v.SetDefault("app.env", "development")
	v.SetDefault("port", "8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("smtp.port", DefaultSMTPPort)
	v.SetDefault("smtp.sender_name", "KMA Global")
	v.SetDefault("contact.booking_url", "https://calendly.com/")
	v.SetDefault("contact.rate_limit", 0)
	v.SetDefault("contact.rate_window", "1m")
	v.SetDefault("nats.subject", "contact.submitted")

	window, err := time.ParseDuration(v.GetString("contact.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid contact rate window: %w", err)
	}

	smtpPort := v.GetInt("smtp.port")
	if smtpPort <= 0 {
		return Config{}, fmt.Errorf("invalid smtp port %q", v.GetString("smtp.port"))
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("port"),
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		CORSAllowOrigins: v.GetString("cors.allow_origins"),
		ProxyHeader:      strings.TrimSpace(v.GetString("proxy.header")),
		TrustedProxies:   splitList(v.GetString("trusted.proxies")),
		DatabaseURL:      strings.TrimSpace(v.GetString("database.url")),
		DatabaseName:     strings.TrimSpace(v.GetString("database.name")),
		RedisURL:         strings.TrimSpace(v.GetString("redis.url")),
		NATSURL:          strings.TrimSpace(v.GetString("nats.url")),
		NATSSubject:      v.GetString("nats.subject"),
		Mail: MailConfig{
			Host:       strings.TrimSpace(v.GetString("smtp.host")),
			Port:       smtpPort,
			User:       strings.TrimSpace(v.GetString("smtp.user")),
			Password:   v.GetString("smtp.pass"),
			From:       strings.TrimSpace(v.GetString("smtp.from")),
			SenderName: v.GetString("smtp.sender_name"),
		},
		Contact: ContactConfig{
			BookingURL: v.GetString("contact.booking_url"),
			RateLimit:  v.GetInt("contact.rate_limit"),
			RateWindow: window,
		},
	}

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.User
	}

	if cfg.Contact.RateLimit < 0 {
		cfg.Contact.RateLimit = 0
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
