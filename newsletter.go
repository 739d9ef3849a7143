package assoweb

import (
	"bytes"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/tjoliveau/assoweb/htmltransform"
)

// ErrAlreadyPublished is returned when publishing a newsletter that already
// left the draft state. Handlers report it as a notice, not a failure.
var ErrAlreadyPublished = errors.New("assoweb: newsletter is already published")

// LinkContext carries the site identity needed to render links and branding
// into stored email bodies.
type LinkContext struct {
	SiteName string
	SiteURL  string
	LogoName string // cid of the logo embed; empty omits the logo
}

// newToken returns a random URL-safe capability token. It is generated once
// per recipient and never rotated.
func newToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("assoweb: read random: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

var confirmEmailTmpl = template.Must(template.New("confirm").Parse(`<html><body>
<p>Hello {{.Name}},</p>
<p>Please confirm your subscription to the {{.SiteName}} newsletter by following this link:</p>
<p><a href="{{.ConfirmURL}}">Confirm my subscription</a></p>
<p>If you did not request this, you can safely ignore this message.</p>
</body></html>
`))

var newsletterEmailTmpl = template.Must(template.New("newsletter").Parse(`<html><body>
{{if .LogoName}}<p><img src="cid:{{.LogoName}}" alt="{{.SiteName}}"></p>
{{end}}<h1>{{.Title}}</h1>
{{.Content}}
<hr>
<p>You receive this email because you subscribed to the {{.SiteName}} newsletter.
<a href="{{.UnsubscribeURL}}">Unsubscribe</a>.</p>
</body></html>
`))

// Subscribe starts the double opt-in flow: it creates an unconfirmed
// recipient with a fresh token and enqueues one confirmation email. When the
// address is already registered (confirmed or not) it reports success
// without creating anything, so the response never reveals whether an email
// is subscribed.
func (s *Store) Subscribe(name, email string, ctx LinkContext) (created bool, err error) {
	err = s.inTx(func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM recipients WHERE email = ?`, email).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		hash := newToken()
		res, err := tx.Exec(`
			INSERT INTO recipients (name, email, hash, confirmed, date_created)
			VALUES (?, ?, ?, 0, ?)`,
			name, email, hash, fmtTime(time.Now()))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		var body bytes.Buffer
		if err := confirmEmailTmpl.Execute(&body, map[string]any{
			"Name":       name,
			"SiteName":   ctx.SiteName,
			"ConfirmURL": BuildURL(ctx.SiteURL, "newsletter", "confirm", fmt.Sprint(id), hash),
		}); err != nil {
			return err
		}
		subject := fmt.Sprintf("Confirm your subscription to the %s newsletter", ctx.SiteName)
		if _, err := tx.Exec(`
			INSERT INTO emails (title, content, sent, recipient_id) VALUES (?, ?, 0, ?)`,
			subject, body.String(), id); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// ConfirmRecipient completes the opt-in. It only succeeds on an exact
// (id, hash) match against a recipient that is still unconfirmed; anything
// else, including a second visit to a valid link, is ErrNotFound so probing
// cannot tell the cases apart.
func (s *Store) ConfirmRecipient(id int64, hash string) error {
	res, err := s.db.Exec(`
		UPDATE recipients SET confirmed = 1 WHERE id = ? AND hash = ? AND confirmed = 0`,
		id, hash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UnsubscribeRecipient deletes the recipient on an exact (id, hash) match,
// immediately and unconditionally. Pending outbox rows cascade away.
func (s *Store) UnsubscribeRecipient(id int64, hash string) error {
	res, err := s.db.Exec(`DELETE FROM recipients WHERE id = ? AND hash = ?`, id, hash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PruneUnconfirmed deletes every unconfirmed recipient created at or before
// cutoff. Confirmed recipients are never touched by this path.
func (s *Store) PruneUnconfirmed(cutoff time.Time) (int, error) {
	var pruned int
	err := s.inTx(func(tx *sql.Tx) error {
		var err error
		pruned, err = pruneUnconfirmedTx(tx, cutoff)
		return err
	})
	return pruned, err
}

func pruneUnconfirmedTx(tx *sql.Tx, cutoff time.Time) (int, error) {
	stale, err := unconfirmedRecipientsTx(tx)
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, r := range stale {
		if r.DateCreated.After(cutoff) {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM recipients WHERE id = ?`, r.ID); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

// Publish performs the one-way draft→published transition and fans the
// newsletter out to the outbox, all in one transaction: the newsletter is
// never observably published without its outbox rows, or vice versa.
//
// The body is rendered once (summary prepended, table of contents expanded
// against the newsletter's own permalink, local upload URLs rewritten to
// cid: references); then one Email row is created per confirmed recipient,
// and every email is linked to every matched attachment.
func (s *Store) Publish(id int64, ctx LinkContext) (int, error) {
	var fanout int
	err := s.inTx(func(tx *sql.Tx) error {
		row := tx.QueryRow(`SELECT `+newsletterCols+` FROM newsletters WHERE id = ?`, id)
		n, err := scanNewsletter(row)
		if err != nil {
			return err
		}
		if !n.Draft {
			return ErrAlreadyPublished
		}

		permalink := BuildURL(ctx.SiteURL, "newsletter", fmt.Sprint(n.ID), n.Slug)
		body := htmltransform.ExpandTOC(n.Content, permalink)
		if n.Summary != "" {
			body = `<div class="newsletter-summary">` + n.Summary + `</div>` + body
		}

		files, err := uploadedFilesTx(tx)
		if err != nil {
			return err
		}
		byCid := make(map[string]UploadedFile, len(files))
		local := make(map[string]string, 2*len(files))
		base := strings.TrimSuffix(ctx.SiteURL, "/")
		for _, f := range files {
			byCid[f.FileName] = f
			local["/uploads/"+f.FileName] = f.FileName
			local[base+"/uploads/"+f.FileName] = f.FileName
		}
		body, cids := htmltransform.RewriteInlineImages(body, func(src string) (string, bool) {
			cid, ok := local[src]
			return cid, ok
		})
		attachments := make([]UploadedFile, 0, len(cids))
		for _, cid := range cids {
			attachments = append(attachments, byCid[cid])
		}

		recipients, err := confirmedRecipientsTx(tx)
		if err != nil {
			return err
		}
		for _, r := range recipients {
			var rendered bytes.Buffer
			if err := newsletterEmailTmpl.Execute(&rendered, map[string]any{
				"SiteName":       ctx.SiteName,
				"LogoName":       ctx.LogoName,
				"Title":          n.Title,
				"Content":        template.HTML(body),
				"UnsubscribeURL": BuildURL(ctx.SiteURL, "newsletter", "unsubscribe", fmt.Sprint(r.ID), r.Hash),
			}); err != nil {
				return err
			}
			res, err := tx.Exec(`
				INSERT INTO emails (title, content, sent, recipient_id) VALUES (?, ?, 0, ?)`,
				n.Title, rendered.String(), r.ID)
			if err != nil {
				return err
			}
			emailID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for _, f := range attachments {
				if _, err := tx.Exec(`
					INSERT INTO email_attachments (email_id, file_id) VALUES (?, ?)`,
					emailID, f.ID); err != nil {
					return err
				}
			}
		}

		if _, err := tx.Exec(`
			UPDATE newsletters SET draft = 0, date_published = ? WHERE id = ?`,
			fmtTime(time.Now()), n.ID); err != nil {
			return err
		}
		fanout = len(recipients)
		return nil
	})
	return fanout, err
}

func uploadedFilesTx(tx *sql.Tx) ([]UploadedFile, error) {
	rows, err := tx.Query(`SELECT ` + fileCols + ` FROM uploaded_files ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUploadedFiles(rows)
}
