package views

import (
	"github.com/a-h/templ"

	"github.com/tjoliveau/assoweb"
)

type adminLoginBody struct {
	ShowError bool
	CsrfToken string
}

func adminLogin(showError bool, csrfToken string) templ.Component {
	return component(adminLoginTmpl, adminLoginBody{ShowError: showError, CsrfToken: csrfToken})
}

type adminDashboardBody struct {
	Data      assoweb.AdminData
	Section   string
	Message   string
	CsrfToken string
}

func adminDashboard(data assoweb.AdminData, section, message, csrfToken string) templ.Component {
	return component(adminDashboardTmpl, adminDashboardBody{
		Data: data, Section: section, Message: message, CsrfToken: csrfToken,
	})
}

type adminFormBody struct {
	Form      assoweb.FormSpec
	CsrfToken string
}

func adminForm(form assoweb.FormSpec, csrfToken string) templ.Component {
	return component(adminFormTmpl, adminFormBody{Form: form, CsrfToken: csrfToken})
}

type adminAlbumBody struct {
	Album     assoweb.Album
	Pictures  []assoweb.Picture
	Message   string
	CsrfToken string
}

func adminAlbum(a assoweb.Album, pics []assoweb.Picture, message, csrfToken string) templ.Component {
	return component(adminAlbumTmpl, adminAlbumBody{
		Album: a, Pictures: pics, Message: message, CsrfToken: csrfToken,
	})
}

var adminLoginTmpl = parse("admin-login", `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin</title><link rel="stylesheet" href="/public/style.css"></head>
<body class="admin">
<main>
<h1>Admin</h1>
{{if .ShowError}}<p class="error">Wrong password.</p>{{end}}
<form method="post" action="/admin/login/">
<input type="hidden" name="_csrf" value="{{.CsrfToken}}">
<label>Password <input type="password" name="password" autofocus></label>
<button type="submit">Log in</button>
</form>
</main>
</body>
</html>`)

var adminDashboardTmpl = parse("admin-dashboard", `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin</title><link rel="stylesheet" href="/public/style.css"></head>
<body class="admin">
<header>
<nav>
<a href="/admin/?section=pages"{{if eq .Section "pages"}} class="active"{{end}}>Pages</a>
<a href="/admin/?section=categories"{{if eq .Section "categories"}} class="active"{{end}}>Categories</a>
<a href="/admin/?section=briefs"{{if eq .Section "briefs"}} class="active"{{end}}>Briefs</a>
<a href="/admin/?section=newsletters"{{if eq .Section "newsletters"}} class="active"{{end}}>Newsletters</a>
<a href="/admin/?section=albums"{{if eq .Section "albums"}} class="active"{{end}}>Albums</a>
<a href="/admin/?section=files"{{if eq .Section "files"}} class="active"{{end}}>Files</a>
<a href="/admin/?section=menus"{{if eq .Section "menus"}} class="active"{{end}}>Menus</a>
<a href="/admin/?section=home"{{if eq .Section "home"}} class="active"{{end}}>Home</a>
</nav>
<form method="post" action="/admin/logout/">
<input type="hidden" name="_csrf" value="{{.CsrfToken}}">
<button type="submit">Log out</button>
</form>
</header>
<main>
{{if .Message}}<p class="notice">{{.Message}}</p>{{end}}
{{$csrf := .CsrfToken}}
{{if eq .Section "pages"}}
<h1>Pages <a class="new" href="/admin/page/0/">new</a></h1>
<table>
{{range .Data.Pages}}<tr>
<td><a href="/admin/page/{{.ID}}/">{{.Title}}</a></td>
<td>{{if .Visible}}visible{{else}}hidden{{end}}</td>
<td>{{if .Protected}}protected{{end}}</td>
<td><a href="/page/{{.ID}}/{{.Slug}}/">view</a></td>
</tr>
{{end}}</table>
{{else if eq .Section "categories"}}
<h1>Categories <a class="new" href="/admin/category/0/">new</a></h1>
<table>
{{range .Data.Categories}}<tr>
<td><a href="/admin/category/{{.ID}}/">{{.Name}}</a></td>
<td>{{if .Visible}}visible{{else}}hidden{{end}}</td>
<td>
<form method="post" action="/admin/category/{{.ID}}/move/up/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&uarr;</button></form>
<form method="post" action="/admin/category/{{.ID}}/move/down/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&darr;</button></form>
</td>
</tr>
{{end}}</table>
{{else if eq .Section "briefs"}}
<h1>Briefs <a class="new" href="/admin/brief/0/">new</a></h1>
<table>
{{range .Data.Briefs}}<tr>
<td><a href="/admin/brief/{{.ID}}/">{{.Title}}</a></td>
<td>{{.DateCreated.Format "2006-01-02"}}</td>
<td>{{if .Visible}}visible{{else}}hidden{{end}}</td>
</tr>
{{end}}</table>
{{else if eq .Section "newsletters"}}
<h1>Newsletters <a class="new" href="/admin/newsletter/0/">new</a></h1>
<p>{{.Data.PendingEmails}} email(s) waiting for delivery.</p>
<table>
{{range .Data.Newsletters}}<tr>
<td><a href="/admin/newsletter/{{.ID}}/">{{.Title}}</a></td>
<td>{{if .Draft}}draft{{else}}published {{.DatePublished.Format "2006-01-02"}}{{end}}</td>
<td>{{if .Draft}}<form method="post" action="/admin/newsletter/{{.ID}}/publish/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>Publish</button></form>{{end}}</td>
</tr>
{{end}}</table>
<h2>Recipients</h2>
<table>
{{range .Data.Recipients}}<tr>
<td>{{.Name}}</td>
<td>{{.Email}}</td>
<td>{{if .Confirmed}}confirmed{{else}}pending{{end}}</td>
<td><form method="post" action="/admin/recipient/{{.ID}}/delete/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>Remove</button></form></td>
</tr>
{{end}}</table>
{{else if eq .Section "albums"}}
<h1>Albums <a class="new" href="/admin/album/0/">new</a></h1>
<table>
{{range .Data.Albums}}<tr>
<td><a href="/admin/album/{{.ID}}/">{{.Title}}</a></td>
<td>
<form method="post" action="/admin/album/{{.ID}}/move/up/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&uarr;</button></form>
<form method="post" action="/admin/album/{{.ID}}/move/down/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&darr;</button></form>
</td>
</tr>
{{end}}</table>
{{else if eq .Section "files"}}
<h1>Files</h1>
<form method="post" action="/admin/files/upload/" enctype="multipart/form-data">
<input type="hidden" name="_csrf" value="{{$csrf}}">
<input type="file" name="file" required>
<input type="text" name="description" placeholder="Description">
<button type="submit">Upload</button>
</form>
<table>
{{range .Data.Files}}<tr>
<td><a href="/uploads/{{.FileName}}">{{.BaseName}}</a></td>
<td>{{size .Size}}</td>
<td>{{.MIME}}</td>
<td>{{.Description}}</td>
<td><form method="post" action="/admin/files/{{.ID}}/delete/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>Delete</button></form></td>
</tr>
{{end}}</table>
{{else if eq .Section "menus"}}
<h1>Menus <a class="new" href="/admin/menu/0/">new</a></h1>
<h2>Main</h2>
<table>
{{range .Data.MainMenu}}<tr>
<td><a href="/admin/menu/{{.ID}}/">{{.Text}}</a></td>
<td>{{.URL}}</td>
<td>
<form method="post" action="/admin/menu/{{.ID}}/move/up/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&uarr;</button></form>
<form method="post" action="/admin/menu/{{.ID}}/move/down/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&darr;</button></form>
</td>
</tr>
{{end}}</table>
<h2>Secondary</h2>
<table>
{{range .Data.SecondaryMenu}}<tr>
<td><a href="/admin/menu/{{.ID}}/">{{.Text}}</a></td>
<td>{{.URL}}</td>
<td>
<form method="post" action="/admin/menu/{{.ID}}/move/up/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&uarr;</button></form>
<form method="post" action="/admin/menu/{{.ID}}/move/down/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&darr;</button></form>
</td>
</tr>
{{end}}</table>
{{else if eq .Section "home"}}
<h1>Home blocks <a class="new" href="/admin/block/0/">new</a></h1>
<table>
{{range .Data.Blocks}}<tr>
<td><a href="/admin/block/{{.ID}}/">{{.Title}}</a></td>
<td>
<form method="post" action="/admin/block/{{.ID}}/move/up/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&uarr;</button></form>
<form method="post" action="/admin/block/{{.ID}}/move/down/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&darr;</button></form>
</td>
</tr>
{{end}}</table>
<h1>Featured <a class="new" href="/admin/featured/0/">new</a></h1>
<table>
{{range .Data.Featured}}<tr>
<td><a href="/admin/featured/{{.ID}}/">{{.Title}}</a></td>
<td>
<form method="post" action="/admin/featured/{{.ID}}/move/up/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&uarr;</button></form>
<form method="post" action="/admin/featured/{{.ID}}/move/down/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>&darr;</button></form>
</td>
</tr>
{{end}}</table>
{{end}}
</main>
</body>
</html>`)

var adminFormTmpl = parse("admin-form", `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Form.Title}}</title><link rel="stylesheet" href="/public/style.css"></head>
<body class="admin">
<main>
<h1>{{.Form.Title}}</h1>
<form method="post" action="{{.Form.Action}}">
<input type="hidden" name="_csrf" value="{{.CsrfToken}}">
{{range .Form.Fields}}
{{if eq .Type "hidden"}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{else if eq .Type "textarea"}}<label>{{.Label}}<textarea name="{{.Name}}" rows="{{.Rows}}">{{.Value}}</textarea></label>
{{else if eq .Type "select"}}<label>{{.Label}}<select name="{{.Name}}">
{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{end}}</select></label>
{{else if eq .Type "checkbox"}}<label><input type="checkbox" name="{{.Name}}"{{if .Checked}} checked{{end}}> {{.Label}}</label>
{{else}}<label>{{.Label}}<input type="{{.Type}}" name="{{.Name}}" value="{{.Value}}"></label>
{{end}}{{end}}
<button type="submit">Save</button>
</form>
{{if .Form.DeleteAction}}
<form method="post" action="{{.Form.DeleteAction}}" class="danger">
<input type="hidden" name="_csrf" value="{{.CsrfToken}}">
<button type="submit">Delete</button>
</form>
{{end}}
<p><a href="/admin/">Back</a></p>
</main>
</body>
</html>`)

var adminAlbumTmpl = parse("admin-album", `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Album.Title}}</title><link rel="stylesheet" href="/public/style.css"></head>
<body class="admin">
<main>
<h1>{{.Album.Title}}</h1>
{{if .Message}}<p class="notice">{{.Message}}</p>{{end}}
<form method="post" action="/admin/album/save/">
<input type="hidden" name="_csrf" value="{{.CsrfToken}}">
<input type="hidden" name="id" value="{{.Album.ID}}">
<label>Title<input type="text" name="title" value="{{.Album.Title}}"></label>
<label>Description<textarea name="description" rows="5">{{.Album.Description}}</textarea></label>
<label>Cover<select name="thumbnail_id">
<option value="0">First picture</option>
{{$thumb := .Album.ThumbnailID}}{{range .Pictures}}<option value="{{.ID}}"{{if eq .ID $thumb}} selected{{end}}>{{.FileName}}</option>
{{end}}</select></label>
<button type="submit">Save</button>
</form>
<h2>Pictures</h2>
<form method="post" action="/admin/album/{{.Album.ID}}/pictures/" enctype="multipart/form-data">
<input type="hidden" name="_csrf" value="{{.CsrfToken}}">
<input type="file" name="picture" accept="image/*" required>
<button type="submit">Add</button>
</form>
<ul class="pictures">
{{$csrf := .CsrfToken}}{{range .Pictures}}<li>
<img src="/photos/{{.ThumbName}}" alt="">
<form method="post" action="/admin/picture/{{.ID}}/delete/"><input type="hidden" name="_csrf" value="{{$csrf}}"><button>Delete</button></form>
</li>
{{end}}</ul>
<form method="post" action="/admin/album/{{.Album.ID}}/delete/" class="danger">
<input type="hidden" name="_csrf" value="{{.CsrfToken}}">
<button type="submit">Delete album</button>
</form>
<p><a href="/admin/?section=albums">Back</a></p>
</main>
</body>
</html>`)
