package views

// layoutHTML is the shared shell: the two menus from HomeData, the page
// title, and a footer naming the site author.
const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} — {{.Cfg.Name}}</title>
<meta name="description" content="{{.Cfg.Description}}">
<link rel="alternate" type="application/rss+xml" title="{{.Cfg.Name}}" href="/feed.xml">
<link rel="stylesheet" href="/public/style.css">
</head>
<body>
<header>
<a class="site-name" href="/">{{.Cfg.Name}}</a>
<nav class="main-menu">
{{range .Data.MainMenu}}<a href="{{.URL}}"{{if .Highlight}} class="highlight"{{end}}>{{.Text}}</a>
{{end}}</nav>
<nav class="secondary-menu">
{{range .Data.SecondaryMenu}}<a href="{{.URL}}"{{if .Highlight}} class="highlight"{{end}}>{{.Text}}</a>
{{end}}</nav>
</header>
<main>
{{template "content" .}}
</main>
<footer>
<p>{{.Cfg.Name}}{{if .Cfg.Author}} — {{.Cfg.Author}}{{end}}</p>
<p><a href="/newsletter/subscribe/">Subscribe to the newsletter</a> · <a href="/feed.xml">RSS</a></p>
</footer>
</body>
</html>{{end}}`

var homeTmpl = parse("home", `{{define "content"}}
{{if .Data.Featured}}<section class="featured">
{{range .Data.Featured}}<article class="card">
{{if .ImageLink}}<img src="{{.ImageLink}}" alt="{{.Title}}">{{end}}
<h2>{{.Title}}</h2>
<p>{{.Text}}</p>
{{if .Link}}<a href="{{.Link}}">{{if .LinkText}}{{.LinkText}}{{else}}Read more{{end}}</a>{{end}}
</article>
{{end}}</section>{{end}}
{{range .Data.Blocks}}<section class="block">
<h2>{{.Title}}</h2>
{{raw .Content}}
</section>
{{end}}
{{if .Data.Briefs}}<section class="briefs">
<h2>News</h2>
{{range .Data.Briefs}}<article>
<h3><a href="/brief/{{.ID}}/{{.Slug}}/">{{.Title}}</a></h3>
<p>{{.Summary}}</p>
</article>
{{end}}</section>{{end}}
{{end}}{{template "layout" .}}`)

var pageTmpl = parse("page", `{{define "content"}}
<article class="page">
<h1>{{.Body.Page.Title}}</h1>
{{raw .Body.Page.Content}}
{{with .Body.Next}}<p class="next"><a href="/page/{{.ID}}/{{.Slug}}/">{{.Title}} &rarr;</a></p>{{end}}
</article>
{{end}}{{template "layout" .}}`)

var briefsTmpl = parse("briefs", `{{define "content"}}
<h1>News</h1>
{{range .Body}}<article class="brief">
<h2><a href="/brief/{{.ID}}/{{.Slug}}/">{{.Title}}</a></h2>
<time>{{.DateCreated.Format "2 January 2006"}}</time>
<p>{{.Summary}}</p>
</article>
{{else}}<p>Nothing here yet.</p>
{{end}}
{{end}}{{template "layout" .}}`)

var briefTmpl = parse("brief", `{{define "content"}}
<article class="brief">
<h1>{{.Body.Title}}</h1>
<time>{{.Body.DateCreated.Format "2 January 2006"}}</time>
{{raw .Body.Content}}
</article>
{{end}}{{template "layout" .}}`)

var newslettersTmpl = parse("newsletters", `{{define "content"}}
<h1>Newsletters</h1>
<ul class="newsletter-list">
{{range .Body}}<li>
<a href="/newsletter/{{.ID}}/{{.Slug}}/">{{.Title}}</a>
<time>{{.DatePublished.Format "2 January 2006"}}</time>
</li>
{{else}}<li>No newsletter published yet.</li>
{{end}}</ul>
<p><a href="/newsletter/subscribe/">Receive the next one by email</a></p>
{{end}}{{template "layout" .}}`)

var newsletterTmpl = parse("newsletter", `{{define "content"}}
<article class="newsletter">
<h1>{{.Body.Title}}</h1>
<time>{{.Body.DatePublished.Format "2 January 2006"}}</time>
{{if .Body.Summary}}<div class="newsletter-summary">{{raw .Body.Summary}}</div>{{end}}
{{raw .Body.Content}}
</article>
{{end}}{{template "layout" .}}`)

var albumsTmpl = parse("albums", `{{define "content"}}
<h1>Albums</h1>
<ul class="albums">
{{$thumbs := .Body.Thumbs}}{{range .Body.Albums}}<li>
<a href="/album/{{.ID}}/{{.Slug}}/">
{{with index $thumbs .ID}}<img src="/photos/{{.ThumbName}}" alt="">{{end}}
<span>{{.Title}}</span>
</a>
</li>
{{else}}<li>No album yet.</li>
{{end}}</ul>
{{end}}{{template "layout" .}}`)

var albumTmpl = parse("album", `{{define "content"}}
<h1>{{.Body.Album.Title}}</h1>
{{if .Body.Album.Description}}<p>{{.Body.Album.Description}}</p>{{end}}
<ul class="pictures">
{{range .Body.Pictures}}<li>
<a href="/photos/{{.FileName}}"><img src="/photos/{{.ThumbName}}" alt=""></a>
</li>
{{end}}</ul>
{{end}}{{template "layout" .}}`)

var subscribeTmpl = parse("subscribe", `{{define "content"}}
<h1>Newsletter</h1>
{{if .Body.Message}}<p class="{{if .Body.ShowError}}error{{else}}notice{{end}}">{{.Body.Message}}</p>{{end}}
<form method="post" action="/newsletter/subscribe/">
<input type="hidden" name="_csrf" value="{{.Body.CsrfToken}}">
<label>Name <input type="text" name="name" required></label>
<label>Email <input type="email" name="email" required></label>
<button type="submit">Subscribe</button>
</form>
<p>You will receive a confirmation link before anything else.</p>
{{end}}{{template "layout" .}}`)

var noticeTmpl = parse("notice", `{{define "content"}}
<h1>{{.Body.Heading}}</h1>
<p>{{.Body.Message}}</p>
<p><a href="/">Back to the home page</a></p>
{{end}}{{template "layout" .}}`)

var errorTmpl = parse("error", `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Code}}</title></head>
<body>
<main>
<h1>{{.Code}}</h1>
<p>{{.Message}}</p>
<p><a href="/">Back to the home page</a></p>
</main>
</body>
</html>`)
