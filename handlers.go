package assoweb

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(data, a.Config))
}

// notFound renders the 404 page through the user's template.
func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
}

// checkSlug returns true when the :slug route parameter matches the entity's
// slug. The slug is cosmetic in the URL, but a mismatch is treated as a miss
// so stale links do not serve renamed content under old titles.
func checkSlug(c echo.Context, slug string) bool {
	return c.Param("slug") == slug
}

func (a *App) handlePage(c echo.Context) error {
	p, err := a.Cache.VisiblePage(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.notFound(c)
		}
		return err
	}
	if !checkSlug(c, p.Slug) {
		return a.notFound(c)
	}
	var next *Page
	if p.NextID != 0 {
		if n, err := a.Cache.VisiblePage(p.NextID); err == nil {
			next = &n
		}
	}
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page(p, next, data, a.Config))
}

func (a *App) handleBriefs(c echo.Context) error {
	briefs, err := a.Store.ListBriefs(true)
	if err != nil {
		return err
	}
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Briefs(briefs, data, a.Config))
}

func (a *App) handleBrief(c echo.Context) error {
	b, err := a.Store.GetBrief(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.notFound(c)
		}
		return err
	}
	if !b.Visible || !checkSlug(c, b.Slug) {
		return a.notFound(c)
	}
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Brief(b, data, a.Config))
}

func (a *App) handleNewsletters(c echo.Context) error {
	published, err := a.Store.ListPublishedNewsletters()
	if err != nil {
		return err
	}
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Newsletters(published, data, a.Config))
}

func (a *App) handleNewsletter(c echo.Context) error {
	n, err := a.Store.GetNewsletter(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.notFound(c)
		}
		return err
	}
	// Drafts stay private until published.
	if n.Draft || !checkSlug(c, n.Slug) {
		return a.notFound(c)
	}
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Newsletter(n, data, a.Config))
}

func (a *App) handleAlbums(c echo.Context) error {
	albums, err := a.Store.ListAlbums()
	if err != nil {
		return err
	}
	thumbs := make(map[int64]Picture, len(albums))
	for _, al := range albums {
		pic, err := a.Store.AlbumThumbnail(al)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		thumbs[al.ID] = pic
	}
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Albums(albums, thumbs, data, a.Config))
}

func (a *App) handleAlbum(c echo.Context) error {
	al, err := a.Store.GetAlbum(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.notFound(c)
		}
		return err
	}
	if !checkSlug(c, al.Slug) {
		return a.notFound(c)
	}
	pics, err := a.Store.ListPictures(al.ID)
	if err != nil {
		return err
	}
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Album(al, pics, data, a.Config))
}

// --- Newsletter subscription flow ---

func (a *App) handleSubscribeForm(c echo.Context) error {
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Subscribe("", false, CsrfToken(c), data, a.Config))
}

func (a *App) handleSubscribe(c echo.Context) error {
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	if !a.subscribeLimiter.Allow(c.RealIP()) {
		return RenderStatus(c, http.StatusTooManyRequests,
			a.Views.Subscribe("Too many attempts, please retry in a minute.", true, CsrfToken(c), data, a.Config))
	}

	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return RenderStatus(c, http.StatusBadRequest,
			a.Views.Subscribe("Please provide a name and a valid email address.", true, CsrfToken(c), data, a.Config))
	}

	// The response is identical whether or not the address was already
	// registered, so the form cannot be used to probe the recipient list.
	if _, err := a.Store.Subscribe(name, email, a.Config.LinkContext()); err != nil {
		return err
	}
	return Render(c, a.Views.Notice("Almost there",
		"Thank you! Check your inbox for a confirmation link.", data, a.Config))
}

func (a *App) handleConfirm(c echo.Context) error {
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	err = a.Store.ConfirmRecipient(parseID(c, "id"), c.Param("hash"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.notFound(c)
		}
		return err
	}
	return Render(c, a.Views.Notice("Subscription confirmed",
		"You will receive the next newsletter by email.", data, a.Config))
}

func (a *App) handleUnsubscribe(c echo.Context) error {
	data, err := a.Cache.Home()
	if err != nil {
		return err
	}
	err = a.Store.UnsubscribeRecipient(parseID(c, "id"), c.Param("hash"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.notFound(c)
		}
		return err
	}
	return Render(c, a.Views.Notice("Unsubscribed",
		"You will no longer receive the newsletter.", data, a.Config))
}

// --- Static odds and ends ---

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
