// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ParishHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, notify_enabled, etc.
//   - Environment variables: PARISHHUB_MONGO_URI, PARISHHUB_NOTIFY_ENABLED, etc.
//   - Command-line flags: --mongo_uri, --notify_enabled, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "parish_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Notification fan-out
	{Name: "notify_enabled", Default: "auto", Desc: "SMS fan-out: 'on', 'off', or 'auto' (on only in prod)"},
	{Name: "notify_interval", Default: "15s", Desc: "Outbox drain interval (e.g., 15s, 1m)"},
	{Name: "notify_stale_after", Default: "5m", Desc: "Claim age after which an intent is re-claimable"},

	// Twilio SMS gateway
	{Name: "twilio_account_sid", Default: "", Desc: "Twilio account SID"},
	{Name: "twilio_auth_token", Default: "", Desc: "Twilio auth token"},
	{Name: "twilio_from_number", Default: "", Desc: "Twilio sending number (E.164)"},

	// Mux video
	{Name: "mux_token_id", Default: "", Desc: "Mux API token ID (blank disables playback resolution)"},
	{Name: "mux_token_secret", Default: "", Desc: "Mux API token secret"},

	// Daily stats rollup
	{Name: "time_zone", Default: "UTC", Desc: "IANA time zone for daily rollup boundaries"},
	{Name: "rollup_interval", Default: "1h", Desc: "How often the previous-day rollup re-runs"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, PARISHHUB_* for app), and
// command-line flags, merged with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PARISHHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		NotifyInterval:   appValues.Duration("notify_interval", 15*time.Second),
		NotifyStaleAfter: appValues.Duration("notify_stale_after", 5*time.Minute),

		TwilioAccountSID: appValues.String("twilio_account_sid"),
		TwilioAuthToken:  appValues.String("twilio_auth_token"),
		TwilioFromNumber: appValues.String("twilio_from_number"),

		MuxTokenID:     appValues.String("mux_token_id"),
		MuxTokenSecret: appValues.String("mux_token_secret"),

		TimeZone:       appValues.String("time_zone"),
		RollupInterval: appValues.Duration("rollup_interval", time.Hour),
	}

	switch appValues.String("notify_enabled") {
	case "on":
		appCfg.NotifyEnabled = true
	case "off":
		appCfg.NotifyEnabled = false
	case "auto":
		// Fan-out texts real members; keep it off everywhere but prod
		// unless explicitly switched on.
		appCfg.NotifyEnabled = coreCfg.Env == "prod"
	default:
		return nil, AppConfig{}, fmt.Errorf("notify_enabled must be 'on', 'off', or 'auto', got %q",
			appValues.String("notify_enabled"))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked up front so misconfiguration fails
// before a connection attempt. Enabling fan-out without complete Twilio
// credentials is also a startup error; a half-configured gateway would
// otherwise fail every send at runtime.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.NotifyEnabled {
		if appCfg.TwilioAccountSID == "" || appCfg.TwilioAuthToken == "" || appCfg.TwilioFromNumber == "" {
			return fmt.Errorf("notify_enabled requires twilio_account_sid, twilio_auth_token, and twilio_from_number")
		}
	}

	if _, err := time.LoadLocation(appCfg.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone %q: %w", appCfg.TimeZone, err)
	}

	return nil
}
