// Package assoweb is a small association website engine built with Go, Echo,
// and templ. It serves editor-managed pages, news briefs and photo albums,
// and runs a double-opt-in newsletter with a transactional outbox drained by
// a background delivery bot.
//
// Users provide their own templ components via the ViewFuncs struct, and
// assoweb handles all the handler logic, middleware, and database operations.
package assoweb

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets
// users own and customize all templates.
type ViewFuncs struct {
	Home        func(data HomeData, cfg SiteConfig) templ.Component
	Page        func(p Page, next *Page, data HomeData, cfg SiteConfig) templ.Component
	Briefs      func(briefs []Brief, data HomeData, cfg SiteConfig) templ.Component
	Brief       func(b Brief, data HomeData, cfg SiteConfig) templ.Component
	Newsletters func(published []Newsletter, data HomeData, cfg SiteConfig) templ.Component
	Newsletter  func(n Newsletter, data HomeData, cfg SiteConfig) templ.Component
	Albums      func(albums []Album, thumbs map[int64]Picture, data HomeData, cfg SiteConfig) templ.Component
	Album       func(a Album, pics []Picture, data HomeData, cfg SiteConfig) templ.Component
	Subscribe   func(message string, showError bool, csrfToken string, data HomeData, cfg SiteConfig) templ.Component
	Notice      func(title, message string, data HomeData, cfg SiteConfig) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component

	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(data AdminData, section, message, csrfToken string) templ.Component
	AdminForm      func(form FormSpec, csrfToken string) templ.Component
	AdminAlbum     func(a Album, pics []Picture, message, csrfToken string) templ.Component
}

// AdminData aggregates everything the back-office dashboard shows.
type AdminData struct {
	Pages         []Page
	Categories    []Category
	Briefs        []Brief
	Newsletters   []Newsletter
	Recipients    []Recipient
	PendingEmails int
	Files         []UploadedFile
	Albums        []Album
	MainMenu      []MenuEntry
	SecondaryMenu []MenuEntry
	Blocks        []Block
	Featured      []Featured
}

// App is the central assoweb application. It wires together the store,
// cache, mailer, bot, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *SiteCache
	Views  ViewFuncs
	Mailer Mailer
	Bot    *Bot

	loginLimiter     *RateLimiter
	subscribeLimiter *RateLimiter
	customRoutes     []func(*App)
	staticDir        string
}

// New creates a new assoweb App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.ApplyDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, mailer, bot, middleware and routes,
// and starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("assoweb: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("assoweb: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("assoweb: init store: %w", err)
	}
	a.Store = store

	for _, dir := range []string{a.Config.UploadsDir(), a.Config.PicturesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("assoweb: create %s: %w", dir, err)
		}
	}

	a.Cache = NewSiteCache(a.Store, a.Config.CacheTTL)

	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.subscribeLimiter = NewRateLimiter(3, time.Minute)

	if a.Mailer == nil {
		if a.Config.UseFakeMailer {
			a.Mailer = NewFileMailer(a.Config.FakeMailerPath)
		} else {
			a.Mailer = NewSMTPMailer(a.Config.SMTPHost, a.Config.SMTPPort,
				a.Config.SMTPUsername, a.Config.SMTPPassword)
		}
	}

	if a.Config.LaunchBot {
		a.Bot = NewBot(a.Store, a.Mailer, a.Config, a.Echo.Logger)
		a.Bot.Start()
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.Static("/uploads", a.Config.UploadsDir())
	e.Static("/photos", a.Config.PicturesDir())
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/page/:id/:slug/", a.handlePage)
	e.GET("/briefs/", a.handleBriefs)
	e.GET("/brief/:id/:slug/", a.handleBrief)
	e.GET("/newsletters/", a.handleNewsletters)
	e.GET("/newsletter/:id/:slug/", a.handleNewsletter)
	e.GET("/albums/", a.handleAlbums)
	e.GET("/album/:id/:slug/", a.handleAlbum)

	e.GET("/newsletter/subscribe/", a.handleSubscribeForm)
	e.POST("/newsletter/subscribe/", a.handleSubscribe)
	e.GET("/newsletter/confirm/:id/:hash/", a.handleConfirm)
	e.GET("/newsletter/unsubscribe/:id/:hash/", a.handleUnsubscribe)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	e.GET("/admin/category/:id/", a.handleAdminCategoryForm)
	e.POST("/admin/category/save/", a.handleAdminCategorySave)
	e.POST("/admin/category/:id/delete/", a.handleAdminCategoryDelete)
	e.POST("/admin/category/:id/move/:dir/", a.handleAdminCategoryMove)

	e.GET("/admin/page/:id/", a.handleAdminPageForm)
	e.POST("/admin/page/save/", a.handleAdminPageSave)
	e.POST("/admin/page/:id/delete/", a.handleAdminPageDelete)

	e.GET("/admin/brief/:id/", a.handleAdminBriefForm)
	e.POST("/admin/brief/save/", a.handleAdminBriefSave)
	e.POST("/admin/brief/:id/delete/", a.handleAdminBriefDelete)

	e.GET("/admin/newsletter/:id/", a.handleAdminNewsletterForm)
	e.POST("/admin/newsletter/save/", a.handleAdminNewsletterSave)
	e.POST("/admin/newsletter/:id/delete/", a.handleAdminNewsletterDelete)
	e.POST("/admin/newsletter/:id/publish/", a.handleAdminNewsletterPublish)
	e.POST("/admin/recipient/:id/delete/", a.handleAdminRecipientDelete)

	e.GET("/admin/menu/:id/", a.handleAdminMenuForm)
	e.POST("/admin/menu/save/", a.handleAdminMenuSave)
	e.POST("/admin/menu/:id/delete/", a.handleAdminMenuDelete)
	e.POST("/admin/menu/:id/move/:dir/", a.handleAdminMenuMove)

	e.GET("/admin/block/:id/", a.handleAdminBlockForm)
	e.POST("/admin/block/save/", a.handleAdminBlockSave)
	e.POST("/admin/block/:id/delete/", a.handleAdminBlockDelete)
	e.POST("/admin/block/:id/move/:dir/", a.handleAdminBlockMove)

	e.GET("/admin/featured/:id/", a.handleAdminFeaturedForm)
	e.POST("/admin/featured/save/", a.handleAdminFeaturedSave)
	e.POST("/admin/featured/:id/delete/", a.handleAdminFeaturedDelete)
	e.POST("/admin/featured/:id/move/:dir/", a.handleAdminFeaturedMove)

	e.POST("/admin/files/upload/", a.handleAdminFileUpload)
	e.POST("/admin/files/:id/delete/", a.handleAdminFileDelete)

	e.GET("/admin/album/:id/", a.handleAdminAlbumForm)
	e.POST("/admin/album/save/", a.handleAdminAlbumSave)
	e.POST("/admin/album/:id/delete/", a.handleAdminAlbumDelete)
	e.POST("/admin/album/:id/move/:dir/", a.handleAdminAlbumMove)
	e.POST("/admin/album/:id/pictures/", a.handleAdminPictureUpload)
	e.POST("/admin/picture/:id/delete/", a.handleAdminPictureDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Bot != nil {
		a.Bot.Stop()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("assoweb: required environment variable %s is not set", key)
	}
	return v
}
