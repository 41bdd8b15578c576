// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits). AppConfig is everything specific to
// AgoraHub: the Mongo connection, session cookies, avatar storage, and
// seed data.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Avatar storage configuration
	StorageLocalPath string // local directory for uploaded files
	StorageLocalURL  string // URL prefix the stored files are served from

	// SeedTopics is a comma-separated list of topic names created at
	// startup if missing. Blank disables seeding.
	SeedTopics string
}
