package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	SessionTTL      time.Duration
	InvitationTTL   time.Duration
	VerificationTTL time.Duration
	LogFormat       string
}

// Load parses configuration values from the current process environment.
//
// Every field has a sensible default; set values are validated and invalid
// entries are reported together so a misconfigured deployment fails fast.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:booking.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		SessionTTL:      24 * time.Hour,
		InvitationTTL:   7 * 24 * time.Hour,
		VerificationTTL: 24 * time.Hour,
		LogFormat:       "text",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_INVITATION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_INVITATION_TTL")
		} else {
			cfg.InvitationTTL = ttl
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_VERIFICATION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_VERIFICATION_TTL")
		} else {
			cfg.VerificationTTL = ttl
		}
	}

	if format := strings.ToLower(strings.TrimSpace(os.Getenv("BOOKING_LOG_FORMAT"))); format != "" {
		switch format {
		case "text", "json":
			cfg.LogFormat = format
		default:
			invalid = append(invalid, "BOOKING_LOG_FORMAT")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
