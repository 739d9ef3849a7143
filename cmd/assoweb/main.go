// Command assoweb runs the association website with the default templates.
// Configuration comes from environment variables; see configFromEnv.
//
// Subcommands:
//
//	assoweb        start the web server (and the delivery bot unless LAUNCH_BOT=false)
//	assoweb bot    run only the delivery bot, for split deployments
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/tjoliveau/assoweb"
	"github.com/tjoliveau/assoweb/views"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "bot":
			runBot(configFromEnv())
			return
		case "version":
			fmt.Printf("assoweb %s\n", version)
			return
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}
	runServer(configFromEnv())
}

func printUsage() {
	fmt.Println(`assoweb - association website engine

Usage:
  assoweb [command]

Commands:
  (none)     Start the web server
  bot        Run only the newsletter delivery bot
  version    Print the version
  help       Show this help message`)
}

func configFromEnv() assoweb.SiteConfig {
	return assoweb.SiteConfig{
		Name:        assoweb.EnvOr("SITE_NAME", "Association"),
		URL:         assoweb.EnvOr("SITE_URL", "http://localhost:3000"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		Author:      os.Getenv("SITE_AUTHOR"),

		Addr:         assoweb.EnvOr("ADDR", ":3000"),
		DataDir:      assoweb.EnvOr("DATA_DIR", "data"),
		DatabasePath: os.Getenv("DATABASE_PATH"),

		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  boolEnv("COOKIE_SECURE", false),

		SenderEmail:        os.Getenv("SENDER_EMAIL"),
		ReplyToEmail:       os.Getenv("REPLY_TO_EMAIL"),
		LogoPath:           os.Getenv("NEWSLETTER_LOGO"),
		RecipientRetention: durationEnv("RECIPIENT_RETENTION", 0),
		BotInterval:        durationEnv("BOT_INTERVAL", 0),
		LaunchBot:          boolEnv("LAUNCH_BOT", true),
		UseFakeMailer:      boolEnv("USE_FAKE_MAILER", false),
		FakeMailerPath:     os.Getenv("FAKE_MAILER_PATH"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     intEnv("SMTP_PORT", 0),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}
}

func boolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func runServer(cfg assoweb.SiteConfig) {
	app := assoweb.New(cfg, views.Default())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Echo.Shutdown(ctx)
		app.Close()
	}()

	if err := app.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "assoweb: %v\n", err)
		os.Exit(1)
	}
}

// runBot runs the delivery loop without the web server, for deployments that
// keep the public site and the mail worker on separate processes. Only one
// bot may run against a database at a time.
func runBot(cfg assoweb.SiteConfig) {
	cfg.ApplyDefaults()

	logger := log.New("assoweb-bot")
	logger.SetLevel(log.INFO)

	store, err := assoweb.NewStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatalf("init store: %v", err)
	}
	defer store.Close()

	var mailer assoweb.Mailer
	if cfg.UseFakeMailer {
		mailer = assoweb.NewFileMailer(cfg.FakeMailerPath)
	} else {
		mailer = assoweb.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	bot := assoweb.NewBot(store, mailer, cfg, logger)
	bot.Start()
	logger.Infof("delivery bot started, interval %s", cfg.BotInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	bot.Stop()
}
