package assoweb

import (
	"path/filepath"
	"time"
)

// SiteConfig holds all configuration for an assoweb site.
type SiteConfig struct {
	Name        string // Site name shown in templates and emails
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the feed and meta tags
	Author      string // Maintainer name for the footer

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")
	DataDir      string // Root for uploads and pictures (default "data")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	CacheTTL time.Duration // Site cache TTL (default 5min)

	// Newsletter delivery.
	SenderEmail        string        // Required to publish: envelope sender
	ReplyToEmail       string        // Reply-To override (default = sender)
	LogoPath           string        // Logo embedded in every newsletter email
	RecipientRetention time.Duration // Unconfirmed recipients kept this long (default 120h)
	BotInterval        time.Duration // Delivery bot tick (default 60s)
	LaunchBot          bool          // Run the bot inside the web process
	UseFakeMailer      bool          // Write transcripts instead of sending
	FakeMailerPath     string        // Transcript file (default "data/outbox.txt")

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// ApplyDefaults fills unset fields with their defaults. New calls this;
// standalone entry points that bypass New (like the bot-only command) call
// it themselves.
func (c *SiteConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "Association"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, "site.db")
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.ReplyToEmail == "" {
		c.ReplyToEmail = c.SenderEmail
	}
	if c.RecipientRetention == 0 {
		c.RecipientRetention = 120 * time.Hour
	}
	if c.BotInterval == 0 {
		c.BotInterval = 60 * time.Second
	}
	if c.FakeMailerPath == "" {
		c.FakeMailerPath = filepath.Join(c.DataDir, "outbox.txt")
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
}

// UploadsDir is where uploaded files live on disk.
func (c SiteConfig) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

// PicturesDir is where album pictures and thumbnails live on disk.
func (c SiteConfig) PicturesDir() string {
	return filepath.Join(c.DataDir, "pictures")
}

// LinkContext derives the identity passed into stored email bodies.
func (c SiteConfig) LinkContext() LinkContext {
	logo := ""
	if c.LogoPath != "" {
		logo = filepath.Base(c.LogoPath)
	}
	return LinkContext{SiteName: c.Name, SiteURL: c.URL, LogoName: logo}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for site-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithMailer overrides the mail backend selected from the config. Used by
// tests and unusual deployments.
func WithMailer(m Mailer) Option {
	return func(a *App) {
		a.Mailer = m
	}
}
