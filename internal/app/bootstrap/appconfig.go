// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings like ports, TLS, and logging; AppConfig is
// everything specific to TaskHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // How long a signed-in session lasts

	// Invitation tokens
	InviteSignKey string        // Secret key for signing invitation tokens
	InviteExpiry  time.Duration // How long an invitation link stays valid

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL for links in outgoing email (invitation accept links)
	BaseURL  string
	SiteName string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Gemini configuration for AI priority suggestions
	GeminiAPIKey string
	GeminiModel  string
}
