// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, CORS). AppConfig is everything specific to this
// service: database connection, gateway credentials, feature flags,
// and rollup scheduling.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Notification fan-out
	NotifyEnabled    bool          // master switch; keeps non-prod environments from texting members
	NotifyInterval   time.Duration // outbox drain interval
	NotifyStaleAfter time.Duration // claim age after which another worker may take over

	// Twilio SMS gateway (required when NotifyEnabled)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string // E.164 sending number

	// Mux video (optional; blank disables playback resolution)
	MuxTokenID     string
	MuxTokenSecret string

	// Daily stats rollup
	TimeZone       string        // IANA zone for day boundaries (e.g., America/Chicago)
	RollupInterval time.Duration // how often the previous-day rollup re-runs
}
