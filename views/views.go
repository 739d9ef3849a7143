// Package views provides the default templ components for an assoweb site.
// Sites that want their own look supply their own assoweb.ViewFuncs instead;
// these defaults render a plain, accessible layout with no build step.
package views

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/tjoliveau/assoweb"
)

// Default returns a complete ViewFuncs wired to the built-in templates.
func Default() assoweb.ViewFuncs {
	return assoweb.ViewFuncs{
		Home:        home,
		Page:        page,
		Briefs:      briefs,
		Brief:       brief,
		Newsletters: newsletters,
		Newsletter:  newsletter,
		Albums:      albums,
		Album:       album,
		Subscribe:   subscribe,
		Notice:      notice,
		NotFound:    notFound,
		ServerError: serverError,

		AdminLogin:     adminLogin,
		AdminDashboard: adminDashboard,
		AdminForm:      adminForm,
		AdminAlbum:     adminAlbum,
	}
}

// component adapts an html/template to templ's render interface.
func component(t *template.Template, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.Execute(w, data)
	})
}

var funcs = template.FuncMap{
	"raw":  func(s string) template.HTML { return template.HTML(s) },
	"url":  assoweb.BuildURL,
	"size": assoweb.HumanSize,
}

func parse(name, body string) *template.Template {
	t := template.New(name).Funcs(funcs)
	template.Must(t.Parse(layoutHTML))
	return template.Must(t.Parse(body))
}

// pageData is the envelope every public template receives.
type pageData struct {
	Cfg   assoweb.SiteConfig
	Data  assoweb.HomeData
	Title string
	Body  any
}

func home(data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(homeTmpl, pageData{Cfg: cfg, Data: data, Title: cfg.Name})
}

type pageBody struct {
	Page assoweb.Page
	Next *assoweb.Page
}

func page(p assoweb.Page, next *assoweb.Page, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(pageTmpl, pageData{Cfg: cfg, Data: data, Title: p.Title,
		Body: pageBody{Page: p, Next: next}})
}

func briefs(list []assoweb.Brief, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(briefsTmpl, pageData{Cfg: cfg, Data: data, Title: "News", Body: list})
}

func brief(b assoweb.Brief, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(briefTmpl, pageData{Cfg: cfg, Data: data, Title: b.Title, Body: b})
}

func newsletters(published []assoweb.Newsletter, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(newslettersTmpl, pageData{Cfg: cfg, Data: data, Title: "Newsletters", Body: published})
}

func newsletter(n assoweb.Newsletter, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(newsletterTmpl, pageData{Cfg: cfg, Data: data, Title: n.Title, Body: n})
}

type albumsBody struct {
	Albums []assoweb.Album
	Thumbs map[int64]assoweb.Picture
}

func albums(list []assoweb.Album, thumbs map[int64]assoweb.Picture, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(albumsTmpl, pageData{Cfg: cfg, Data: data, Title: "Albums",
		Body: albumsBody{Albums: list, Thumbs: thumbs}})
}

type albumBody struct {
	Album    assoweb.Album
	Pictures []assoweb.Picture
}

func album(a assoweb.Album, pics []assoweb.Picture, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(albumTmpl, pageData{Cfg: cfg, Data: data, Title: a.Title,
		Body: albumBody{Album: a, Pictures: pics}})
}

type subscribeBody struct {
	Message   string
	ShowError bool
	CsrfToken string
}

func subscribe(message string, showError bool, csrfToken string, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(subscribeTmpl, pageData{Cfg: cfg, Data: data, Title: "Newsletter",
		Body: subscribeBody{Message: message, ShowError: showError, CsrfToken: csrfToken}})
}

type noticeBody struct {
	Heading string
	Message string
}

func notice(title, message string, data assoweb.HomeData, cfg assoweb.SiteConfig) templ.Component {
	return component(noticeTmpl, pageData{Cfg: cfg, Data: data, Title: title,
		Body: noticeBody{Heading: title, Message: message}})
}

func notFound() templ.Component {
	return component(errorTmpl, map[string]string{"Code": "404", "Message": "Page not found"})
}

func serverError() templ.Component {
	return component(errorTmpl, map[string]string{"Code": "500", "Message": "Something went wrong"})
}
