package assoweb

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// handleSitemap lists the home page, every visible page, published
// newsletters, briefs and albums.
func (a *App) handleSitemap(c echo.Context) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}

	pages, err := a.Cache.VisiblePages()
	if err != nil {
		return err
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "page", fmt.Sprint(p.ID), p.Slug),
			LastMod: p.DateCreated.Format("2006-01-02"),
		})
	}

	briefs, err := a.Store.ListBriefs(true)
	if err != nil {
		return err
	}
	for _, b := range briefs {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "brief", fmt.Sprint(b.ID), b.Slug),
			LastMod: b.DateCreated.Format("2006-01-02"),
		})
	}

	published, err := a.Store.ListPublishedNewsletters()
	if err != nil {
		return err
	}
	for _, n := range published {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "newsletter", fmt.Sprint(n.ID), n.Slug),
			LastMod: n.DatePublished.Format("2006-01-02"),
		})
	}

	albums, err := a.Store.ListAlbums()
	if err != nil {
		return err
	}
	for _, al := range albums {
		urls = append(urls, sitemapURL{
			Loc: BuildURL(base, "album", fmt.Sprint(al.ID), al.Slug),
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
