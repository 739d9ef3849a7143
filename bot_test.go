package assoweb

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
)

type failingMailer struct{ sent int }

func (f *failingMailer) Send(OutboundEmail) error {
	f.sent++
	return errors.New("relay refused the message")
}

func setupTestBot(t *testing.T, s *Store, m Mailer) (*Bot, SiteConfig) {
	t.Helper()
	cfg := SiteConfig{
		Name:        "Les Amis",
		URL:         "https://example.org",
		DataDir:     t.TempDir(),
		SenderEmail: "bot@example.org",
	}
	cfg.ApplyDefaults()
	if err := os.MkdirAll(cfg.UploadsDir(), 0o755); err != nil {
		t.Fatalf("mkdir uploads: %v", err)
	}
	return NewBot(s, m, cfg, log.New("test")), cfg
}

func TestBotSendsPendingEmails(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("Alice", "alice@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	transcript := filepath.Join(t.TempDir(), "outbox.txt")
	bot, _ := setupTestBot(t, s, NewFileMailer(transcript))

	if err := bot.RunOnce(time.Now()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	pending, err := s.PendingEmails()
	if err != nil {
		t.Fatalf("PendingEmails failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending = %d, want 0 after a successful tick", len(pending))
	}

	data, err := os.ReadFile(transcript)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "To: alice@example.org") {
		t.Errorf("transcript misses the recipient:\n%s", out)
	}
	if !strings.Contains(out, "Confirm your subscription") {
		t.Errorf("transcript misses the subject:\n%s", out)
	}

	// A second tick has nothing to do and must not resend.
	if err := bot.RunOnce(time.Now()); err != nil {
		t.Fatalf("second RunOnce failed: %v", err)
	}
	data, _ = os.ReadFile(transcript)
	if got := strings.Count(string(data), "To: alice@example.org"); got != 1 {
		t.Errorf("message sent %d times, want 1", got)
	}
}

func TestBotEmbedsAttachments(t *testing.T) {
	s := setupTestStore(t)
	subscribeConfirmed(t, s, "Alice", "alice@example.org")

	transcript := filepath.Join(t.TempDir(), "outbox.txt")
	bot, cfg := setupTestBot(t, s, NewFileMailer(transcript))

	if err := os.WriteFile(filepath.Join(cfg.UploadsDir(), "poster.png"),
		[]byte("not-really-a-png"), 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	if _, err := s.CreateUploadedFile(UploadedFile{
		FileName: "poster.png", BaseName: "poster.png", MIME: "image/png", Size: 16,
	}); err != nil {
		t.Fatalf("CreateUploadedFile failed: %v", err)
	}

	n, err := s.SaveNewsletter(Newsletter{
		Title:   "With Poster",
		Content: `<p><img src="/uploads/poster.png"></p>`,
	})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	if _, err := s.Publish(n.ID, testLinks); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if err := bot.RunOnce(time.Now()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	data, err := os.ReadFile(transcript)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "Subject: With Poster") {
		t.Errorf("transcript misses the newsletter:\n%s", out)
	}
	if !strings.Contains(out, "Content-ID") {
		t.Errorf("attachment should be embedded with a Content-ID:\n%s", out)
	}
}

func TestBotPrunesExpiredUnconfirmed(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("Stale", "stale@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	recipients, _ := s.ListRecipients()
	stale := recipients[0]

	// Backdate the subscription past the retention window.
	old := time.Now().Add(-121 * time.Hour)
	if _, err := s.db.Exec(`UPDATE recipients SET date_created = ? WHERE id = ?`,
		fmtTime(old), stale.ID); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	bot, _ := setupTestBot(t, s, NewFileMailer(filepath.Join(t.TempDir(), "outbox.txt")))
	if err := bot.RunOnce(time.Now()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if _, err := s.GetRecipient(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("recipient err = %v, want pruned", err)
	}
	emails, _ := s.ListEmails()
	if len(emails) != 0 {
		t.Errorf("len(emails) = %d, want the pruned recipient's outbox rows gone", len(emails))
	}
}

func TestBotSendFailureLeavesTickUncommitted(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("Stale", "stale@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	subscribeConfirmed(t, s, "Alice", "alice@example.org")
	recipients, _ := s.ListRecipients()
	stale := recipients[0]
	if _, err := s.db.Exec(`UPDATE recipients SET date_created = ? WHERE id = ?`,
		fmtTime(time.Now().Add(-121*time.Hour)), stale.ID); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	mailer := &failingMailer{}
	bot, _ := setupTestBot(t, s, mailer)

	if err := bot.RunOnce(time.Now()); err == nil {
		t.Fatal("RunOnce should surface the send failure")
	}
	if mailer.sent == 0 {
		t.Fatal("the mailer should have been attempted")
	}

	// Nothing from the failed tick may be visible: no sent flags, and even the
	// prune is rolled back with the rest of the transaction.
	pending, err := s.PendingEmails()
	if err != nil {
		t.Fatalf("PendingEmails failed: %v", err)
	}
	if len(pending) == 0 {
		t.Error("pending emails must remain for the next tick")
	}
	if _, err := s.GetRecipient(stale.ID); err != nil {
		t.Errorf("stale recipient should survive the aborted tick: %v", err)
	}
}

func TestBotStartStop(t *testing.T) {
	s := setupTestStore(t)
	bot, _ := setupTestBot(t, s, NewFileMailer(filepath.Join(t.TempDir(), "outbox.txt")))
	bot.cfg.BotInterval = 10 * time.Millisecond

	bot.Start()
	time.Sleep(30 * time.Millisecond)
	bot.Stop()
}
