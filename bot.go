package assoweb

import (
	"database/sql"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tjoliveau/assoweb/htmltransform"
)

// Bot is the delivery worker. Each tick it prunes expired unconfirmed
// recipients and drains the outbox through the configured mail backend,
// committing all recipient deletions and sent flips at once. It runs on a
// single goroutine, so a slow tick makes the ticker drop triggers instead of
// overlapping them.
type Bot struct {
	store  *Store
	mailer Mailer
	cfg    SiteConfig
	logger echo.Logger
	stop   chan struct{}
}

// NewBot wires a delivery worker. It does not start ticking until Start.
func NewBot(store *Store, mailer Mailer, cfg SiteConfig, logger echo.Logger) *Bot {
	return &Bot{
		store:  store,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Start runs one tick immediately, then one per interval until Stop.
func (b *Bot) Start() {
	go func() {
		b.tick()
		ticker := time.NewTicker(b.cfg.BotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.tick()
			case <-b.stop:
				return
			}
		}
	}()
}

// Stop ends the tick loop. A tick already in progress finishes.
func (b *Bot) Stop() {
	close(b.stop)
}

func (b *Bot) tick() {
	if err := b.RunOnce(time.Now()); err != nil {
		b.logger.Errorf("bot: tick aborted: %v", err)
	}
}

// RunOnce performs one worker tick at the given instant, inside a single
// transaction. A backend failure aborts the remainder of the tick
// uncommitted, so messages sent earlier in the same tick are re-attempted on
// the next one: delivery is at-least-once by design, with no retry state.
func (b *Bot) RunOnce(now time.Time) error {
	return b.store.inTx(func(tx *sql.Tx) error {
		pruned, err := pruneUnconfirmedTx(tx, now.Add(-b.cfg.RecipientRetention))
		if err != nil {
			return err
		}
		if pruned > 0 {
			b.logger.Infof("bot: pruned %d unconfirmed recipient(s)", pruned)
		}

		pending, err := pendingEmailsTx(tx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		logo, err := b.logoAttachment()
		if err != nil {
			return err
		}

		for _, p := range pending {
			inline := make([]InlineAttachment, 0, 4)
			if logo != nil {
				inline = append(inline, *logo)
			}
			files, err := attachmentsForEmailTx(tx, p.ID)
			if err != nil {
				return err
			}
			for _, f := range files {
				data, err := os.ReadFile(filepath.Join(b.cfg.UploadsDir(), f.FileName))
				if err != nil {
					return fmt.Errorf("read attachment %s: %w", f.FileName, err)
				}
				inline = append(inline, InlineAttachment{Name: f.FileName, MIME: f.MIME, Content: data})
			}

			msg := OutboundEmail{
				From:    b.cfg.SenderEmail,
				To:      p.RecipientEmail,
				ReplyTo: b.cfg.ReplyToEmail,
				Subject: p.Title,
				HTML:    p.Content,
				Text:    htmltransform.Text(p.Content),
				Inline:  inline,
			}
			if err := b.mailer.Send(msg); err != nil {
				return fmt.Errorf("send email %d to %s: %w", p.ID, p.RecipientEmail, err)
			}
			if _, err := tx.Exec(`UPDATE emails SET sent = 1 WHERE id = ?`, p.ID); err != nil {
				return err
			}
		}
		b.logger.Infof("bot: sent %d email(s)", len(pending))
		return nil
	})
}

// logoAttachment loads the organizational logo embedded in every newsletter
// email. Nil when no logo is configured.
func (b *Bot) logoAttachment() (*InlineAttachment, error) {
	if b.cfg.LogoPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(b.cfg.LogoPath)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	name := filepath.Base(b.cfg.LogoPath)
	return &InlineAttachment{
		Name:    name,
		MIME:    mime.TypeByExtension(filepath.Ext(name)),
		Content: data,
	}, nil
}
