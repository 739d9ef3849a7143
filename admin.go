package assoweb

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("section"), c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, section, msg string) error {
	data, err := a.loadAdminData()
	if err != nil {
		return err
	}
	if section == "" {
		section = "pages"
	}
	return Render(c, a.Views.AdminDashboard(data, section, msg, CsrfToken(c)))
}

func (a *App) loadAdminData() (AdminData, error) {
	var d AdminData
	var err error
	if d.Pages, err = a.Store.ListPages(); err != nil {
		return d, err
	}
	if d.Categories, err = a.Store.ListCategories(false); err != nil {
		return d, err
	}
	if d.Briefs, err = a.Store.ListBriefs(false); err != nil {
		return d, err
	}
	if d.Newsletters, err = a.Store.ListNewsletters(); err != nil {
		return d, err
	}
	if d.Recipients, err = a.Store.ListRecipients(); err != nil {
		return d, err
	}
	pending, err := a.Store.PendingEmails()
	if err != nil {
		return d, err
	}
	d.PendingEmails = len(pending)
	if d.Files, err = a.Store.ListUploadedFiles(); err != nil {
		return d, err
	}
	if d.Albums, err = a.Store.ListAlbums(); err != nil {
		return d, err
	}
	if d.MainMenu, err = a.Store.ListMenuEntries(MenuMain); err != nil {
		return d, err
	}
	if d.SecondaryMenu, err = a.Store.ListMenuEntries(MenuSecondary); err != nil {
		return d, err
	}
	if d.Blocks, err = a.Store.ListBlocks(); err != nil {
		return d, err
	}
	if d.Featured, err = a.Store.ListFeatured(); err != nil {
		return d, err
	}
	return d, nil
}

func parseDir(c echo.Context) (MoveDirection, bool) {
	switch c.Param("dir") {
	case "up":
		return MoveUp, true
	case "down":
		return MoveDown, true
	}
	return 0, false
}

func formID(c echo.Context, name string) int64 {
	id, err := strconv.ParseInt(c.FormValue(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// --- Categories ---

func (a *App) handleAdminCategoryForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var cat Category
	if id := parseID(c, "id"); id != 0 {
		var err error
		if cat, err = a.Store.GetCategory(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	form := FormSpec{
		Title:  "Category",
		Action: "/admin/category/save/",
		Fields: []FormField{
			hiddenField("id", cat.ID),
			textField("name", "Name", cat.Name),
			checkboxField("visible", "Visible", cat.Visible),
		},
	}
	if cat.ID != 0 {
		form.DeleteAction = "/admin/category/" + strconv.FormatInt(cat.ID, 10) + "/delete/"
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminCategorySave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return a.renderAdminDashboard(c, "categories", "A category needs a name.")
	}
	visible := c.FormValue("visible") != ""
	if id := formID(c, "id"); id != 0 {
		cat, err := a.Store.GetCategory(id)
		if err != nil {
			return err
		}
		cat.Name, cat.Visible = name, visible
		if err := a.Store.UpdateCategory(cat); err != nil {
			return err
		}
	} else if _, err := a.Store.CreateCategory(name, visible); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "categories", "saved")
}

func (a *App) handleAdminCategoryDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeleteCategory(parseID(c, "id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "categories", "deleted")
}

func (a *App) handleAdminCategoryMove(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	dir, ok := parseDir(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := a.Store.MoveCategory(parseID(c, "id"), dir); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "categories", "")
}

// --- Pages ---

func (a *App) handleAdminPageForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var p Page
	if id := parseID(c, "id"); id != 0 {
		var err error
		if p, err = a.Store.GetPage(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	cats, err := a.Store.ListCategories(false)
	if err != nil {
		return err
	}
	catOpts := []FormOption{{Value: "0", Label: "(none)"}}
	for _, cat := range cats {
		catOpts = append(catOpts, FormOption{Value: strconv.FormatInt(cat.ID, 10), Label: cat.Name})
	}
	pages, err := a.Store.ListPages()
	if err != nil {
		return err
	}
	nextOpts := []FormOption{{Value: "0", Label: "(none)"}}
	for _, other := range pages {
		if other.ID == p.ID {
			continue
		}
		nextOpts = append(nextOpts, FormOption{Value: strconv.FormatInt(other.ID, 10), Label: other.Title})
	}
	form := FormSpec{
		Title:  "Page",
		Action: "/admin/page/save/",
		Fields: []FormField{
			hiddenField("id", p.ID),
			textField("title", "Title", p.Title),
			textareaField("content", "Content", p.Content, 20),
			selectField("category_id", "Category", p.CategoryID, catOpts),
			selectField("next_id", "Next page", p.NextID, nextOpts),
			checkboxField("visible", "Visible", p.Visible),
		},
	}
	if p.ID != 0 && !p.Protected {
		form.DeleteAction = "/admin/page/" + strconv.FormatInt(p.ID, 10) + "/delete/"
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminPageSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return a.renderAdminDashboard(c, "pages", "A page needs a title.")
	}
	p := Page{
		ID:         formID(c, "id"),
		Title:      title,
		Content:    c.FormValue("content"),
		CategoryID: formID(c, "category_id"),
		NextID:     formID(c, "next_id"),
		Visible:    c.FormValue("visible") != "",
	}
	if p.ID != 0 {
		existing, err := a.Store.GetPage(p.ID)
		if err != nil {
			return err
		}
		p.Protected = existing.Protected
	}
	if _, err := a.Store.SavePage(p); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "pages", "saved")
}

func (a *App) handleAdminPageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p, err := a.Store.GetPage(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	if p.Protected {
		return a.renderAdminDashboard(c, "pages", "Protected pages cannot be deleted.")
	}
	if err := a.Store.DeletePage(p.ID); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "pages", "deleted")
}

// --- Briefs ---

func (a *App) handleAdminBriefForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var b Brief
	if id := parseID(c, "id"); id != 0 {
		var err error
		if b, err = a.Store.GetBrief(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	form := FormSpec{
		Title:  "Brief",
		Action: "/admin/brief/save/",
		Fields: []FormField{
			hiddenField("id", b.ID),
			textField("title", "Title", b.Title),
			textareaField("summary", "Summary", b.Summary, 3),
			textareaField("content", "Content", b.Content, 15),
			checkboxField("visible", "Visible", b.Visible),
		},
	}
	if b.ID != 0 {
		form.DeleteAction = "/admin/brief/" + strconv.FormatInt(b.ID, 10) + "/delete/"
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminBriefSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return a.renderAdminDashboard(c, "briefs", "A brief needs a title.")
	}
	b := Brief{
		ID:      formID(c, "id"),
		Title:   title,
		Summary: c.FormValue("summary"),
		Content: c.FormValue("content"),
		Visible: c.FormValue("visible") != "",
	}
	if _, err := a.Store.SaveBrief(b); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "briefs", "saved")
}

func (a *App) handleAdminBriefDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeleteBrief(parseID(c, "id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "briefs", "deleted")
}

// --- Newsletters ---

func (a *App) handleAdminNewsletterForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var n Newsletter
	if id := parseID(c, "id"); id != 0 {
		var err error
		if n, err = a.Store.GetNewsletter(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	form := FormSpec{
		Title:  "Newsletter",
		Action: "/admin/newsletter/save/",
		Fields: []FormField{
			hiddenField("id", n.ID),
			textField("title", "Title", n.Title),
			textareaField("summary", "Summary", n.Summary, 3),
			textareaField("content", "Content", n.Content, 20),
		},
	}
	if n.ID != 0 {
		form.DeleteAction = "/admin/newsletter/" + strconv.FormatInt(n.ID, 10) + "/delete/"
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminNewsletterSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return a.renderAdminDashboard(c, "newsletters", "A newsletter needs a title.")
	}
	n := Newsletter{
		ID:      formID(c, "id"),
		Title:   title,
		Summary: c.FormValue("summary"),
		Content: c.FormValue("content"),
	}
	if _, err := a.Store.SaveNewsletter(n); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "newsletters", "saved")
}

func (a *App) handleAdminNewsletterDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	n, err := a.Store.GetNewsletter(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	if !n.Draft {
		return a.renderAdminDashboard(c, "newsletters", "Published newsletters cannot be deleted.")
	}
	if err := a.Store.DeleteNewsletter(n.ID); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "newsletters", "deleted")
}

func (a *App) handleAdminNewsletterPublish(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.Config.SenderEmail == "" {
		return a.renderAdminDashboard(c, "newsletters", "Configure a sender email before publishing.")
	}
	fanout, err := a.Store.Publish(parseID(c, "id"), a.Config.LinkContext())
	if err != nil {
		if errors.Is(err, ErrAlreadyPublished) {
			return a.renderAdminDashboard(c, "newsletters", "This newsletter is already published.")
		}
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderAdminDashboard(c, "newsletters",
		"Published. Queued "+strconv.Itoa(fanout)+" email(s) for delivery.")
}

func (a *App) handleAdminRecipientDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	r, err := a.Store.GetRecipient(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	if err := a.Store.UnsubscribeRecipient(r.ID, r.Hash); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "newsletters", "Recipient removed.")
}

// --- Menu entries ---

func (a *App) handleAdminMenuForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var m MenuEntry
	if id := parseID(c, "id"); id != 0 {
		var err error
		if m, err = a.Store.GetMenuEntry(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	form := FormSpec{
		Title:  "Menu entry",
		Action: "/admin/menu/save/",
		Fields: []FormField{
			hiddenField("id", m.ID),
			textField("text", "Text", m.Text),
			textField("url", "URL", m.URL),
			selectField("position", "Menu", int64(m.Position), []FormOption{
				{Value: "0", Label: "Main"},
				{Value: "1", Label: "Secondary"},
			}),
			checkboxField("highlight", "Highlight", m.Highlight),
		},
	}
	if m.ID != 0 {
		form.DeleteAction = "/admin/menu/" + strconv.FormatInt(m.ID, 10) + "/delete/"
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminMenuSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	text := strings.TrimSpace(c.FormValue("text"))
	url := strings.TrimSpace(c.FormValue("url"))
	if text == "" || url == "" {
		return a.renderAdminDashboard(c, "menus", "A menu entry needs text and a URL.")
	}
	m := MenuEntry{
		ID:        formID(c, "id"),
		Text:      text,
		URL:       url,
		Highlight: c.FormValue("highlight") != "",
		Position:  MenuPosition(formID(c, "position")),
	}
	var err error
	if m.ID != 0 {
		err = a.Store.UpdateMenuEntry(m)
	} else {
		_, err = a.Store.CreateMenuEntry(m)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "menus", "saved")
}

func (a *App) handleAdminMenuDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeleteMenuEntry(parseID(c, "id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "menus", "deleted")
}

func (a *App) handleAdminMenuMove(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	dir, ok := parseDir(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := a.Store.MoveMenuEntry(parseID(c, "id"), dir); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "menus", "")
}

// --- Blocks ---

func (a *App) handleAdminBlockForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var b Block
	if id := parseID(c, "id"); id != 0 {
		var err error
		if b, err = a.Store.GetBlock(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	form := FormSpec{
		Title:  "Block",
		Action: "/admin/block/save/",
		Fields: []FormField{
			hiddenField("id", b.ID),
			textField("title", "Title", b.Title),
			textareaField("content", "Content", b.Content, 10),
		},
	}
	if b.ID != 0 {
		form.DeleteAction = "/admin/block/" + strconv.FormatInt(b.ID, 10) + "/delete/"
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminBlockSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return a.renderAdminDashboard(c, "home", "A block needs a title.")
	}
	b := Block{
		ID:      formID(c, "id"),
		Title:   title,
		Content: c.FormValue("content"),
	}
	var err error
	if b.ID != 0 {
		err = a.Store.UpdateBlock(b)
	} else {
		_, err = a.Store.CreateBlock(b)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "home", "saved")
}

func (a *App) handleAdminBlockDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeleteBlock(parseID(c, "id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "home", "deleted")
}

func (a *App) handleAdminBlockMove(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	dir, ok := parseDir(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := a.Store.MoveBlock(parseID(c, "id"), dir); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "home", "")
}

// --- Featured ---

func (a *App) handleAdminFeaturedForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var f Featured
	if id := parseID(c, "id"); id != 0 {
		var err error
		if f, err = a.Store.GetFeatured(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	form := FormSpec{
		Title:  "Featured",
		Action: "/admin/featured/save/",
		Fields: []FormField{
			hiddenField("id", f.ID),
			textField("title", "Title", f.Title),
			textField("link", "Link", f.Link),
			textField("link_text", "Link text", f.LinkText),
			textField("image_link", "Image URL", f.ImageLink),
			textareaField("text", "Text", f.Text, 5),
		},
	}
	if f.ID != 0 {
		form.DeleteAction = "/admin/featured/" + strconv.FormatInt(f.ID, 10) + "/delete/"
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminFeaturedSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return a.renderAdminDashboard(c, "home", "A featured card needs a title.")
	}
	f := Featured{
		ID:        formID(c, "id"),
		Title:     title,
		Link:      strings.TrimSpace(c.FormValue("link")),
		LinkText:  strings.TrimSpace(c.FormValue("link_text")),
		ImageLink: strings.TrimSpace(c.FormValue("image_link")),
		Text:      c.FormValue("text"),
	}
	var err error
	if f.ID != 0 {
		err = a.Store.UpdateFeatured(f)
	} else {
		_, err = a.Store.CreateFeatured(f)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "home", "saved")
}

func (a *App) handleAdminFeaturedDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeleteFeatured(parseID(c, "id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "home", "deleted")
}

func (a *App) handleAdminFeaturedMove(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	dir, ok := parseDir(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := a.Store.MoveFeatured(parseID(c, "id"), dir); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "home", "")
}
