package assoweb

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testLinks = LinkContext{SiteName: "Les Amis", SiteURL: "https://example.org", LogoName: "logo.png"}

func subscribeConfirmed(t *testing.T, s *Store, name, email string) Recipient {
	t.Helper()
	created, err := s.Subscribe(name, email, testLinks)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if !created {
		t.Fatalf("Subscribe(%s) did not create a recipient", email)
	}
	recipients, err := s.ListRecipients()
	if err != nil {
		t.Fatalf("ListRecipients failed: %v", err)
	}
	r := recipients[len(recipients)-1]
	if err := s.ConfirmRecipient(r.ID, r.Hash); err != nil {
		t.Fatalf("ConfirmRecipient failed: %v", err)
	}
	r.Confirmed = true
	return r
}

func TestSubscribeCreatesRecipientAndConfirmationEmail(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.Subscribe("Alice", "alice@example.org", testLinks)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if !created {
		t.Fatal("expected a new recipient")
	}

	recipients, err := s.ListRecipients()
	if err != nil {
		t.Fatalf("ListRecipients failed: %v", err)
	}
	if len(recipients) != 1 {
		t.Fatalf("len(recipients) = %d, want 1", len(recipients))
	}
	r := recipients[0]
	if r.Confirmed {
		t.Error("a fresh subscription must start unconfirmed")
	}
	if r.Hash == "" {
		t.Error("recipient needs a capability token")
	}

	emails, err := s.ListEmails()
	if err != nil {
		t.Fatalf("ListEmails failed: %v", err)
	}
	if len(emails) != 1 {
		t.Fatalf("len(emails) = %d, want one confirmation email", len(emails))
	}
	if !strings.Contains(emails[0].Content, r.Hash) {
		t.Error("confirmation email must carry the confirm link token")
	}
	if emails[0].Sent {
		t.Error("confirmation email must start unsent")
	}
}

func TestSubscribeDuplicateEmailIsSilent(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("Alice", "alice@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	created, err := s.Subscribe("Mallory", "alice@example.org", testLinks)
	if err != nil {
		t.Fatalf("duplicate Subscribe must not error: %v", err)
	}
	if created {
		t.Error("duplicate Subscribe must not create a recipient")
	}

	recipients, err := s.ListRecipients()
	if err != nil {
		t.Fatalf("ListRecipients failed: %v", err)
	}
	if len(recipients) != 1 {
		t.Errorf("len(recipients) = %d, want 1", len(recipients))
	}
	emails, err := s.ListEmails()
	if err != nil {
		t.Fatalf("ListEmails failed: %v", err)
	}
	if len(emails) != 1 {
		t.Errorf("len(emails) = %d, want 1 (no second confirmation)", len(emails))
	}
}

func TestConfirmRecipient(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("Alice", "alice@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	recipients, _ := s.ListRecipients()
	r := recipients[0]

	if err := s.ConfirmRecipient(r.ID, "wrong-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong token err = %v, want ErrNotFound", err)
	}
	if err := s.ConfirmRecipient(r.ID, r.Hash); err != nil {
		t.Fatalf("ConfirmRecipient failed: %v", err)
	}

	got, err := s.GetRecipient(r.ID)
	if err != nil {
		t.Fatalf("GetRecipient failed: %v", err)
	}
	if !got.Confirmed {
		t.Error("recipient should be confirmed")
	}

	// A second visit to the same valid link is indistinguishable from a miss.
	if err := s.ConfirmRecipient(r.ID, r.Hash); !errors.Is(err, ErrNotFound) {
		t.Fatalf("re-confirm err = %v, want ErrNotFound", err)
	}
}

func TestUnsubscribeRecipient(t *testing.T) {
	s := setupTestStore(t)
	r := subscribeConfirmed(t, s, "Alice", "alice@example.org")

	if err := s.UnsubscribeRecipient(r.ID, "wrong-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong token err = %v, want ErrNotFound", err)
	}
	if err := s.UnsubscribeRecipient(r.ID, r.Hash); err != nil {
		t.Fatalf("UnsubscribeRecipient failed: %v", err)
	}
	if _, err := s.GetRecipient(r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("recipient err = %v, want ErrNotFound after unsubscribe", err)
	}

	// Pending outbox rows for that recipient cascade away.
	emails, err := s.ListEmails()
	if err != nil {
		t.Fatalf("ListEmails failed: %v", err)
	}
	if len(emails) != 0 {
		t.Errorf("len(emails) = %d, want 0 after unsubscribe", len(emails))
	}
}

func TestPruneUnconfirmedCutoffIsInclusive(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("Old", "old@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	subscribeConfirmed(t, s, "Kept", "kept@example.org")

	recipients, _ := s.ListRecipients()
	old := recipients[0]

	// Exactly at the cutoff: pruned. One second past it: kept.
	pruned, err := s.PruneUnconfirmed(old.DateCreated)
	if err != nil {
		t.Fatalf("PruneUnconfirmed failed: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}
	if _, err := s.GetRecipient(old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unconfirmed recipient at cutoff should be gone, err = %v", err)
	}

	left, err := s.ListRecipients()
	if err != nil {
		t.Fatalf("ListRecipients failed: %v", err)
	}
	if len(left) != 1 || !left[0].Confirmed {
		t.Fatalf("left = %+v, want only the confirmed recipient", left)
	}

	// Confirmed recipients are never pruned, whatever the cutoff.
	pruned, err = s.PruneUnconfirmed(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneUnconfirmed failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned = %d, want 0", pruned)
	}
}

func TestPruneKeepsRecentUnconfirmed(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("Fresh", "fresh@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	recipients, _ := s.ListRecipients()
	r := recipients[0]

	pruned, err := s.PruneUnconfirmed(r.DateCreated.Add(-time.Second))
	if err != nil {
		t.Fatalf("PruneUnconfirmed failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned = %d, want 0 for a recipient newer than the cutoff", pruned)
	}
}

func TestPublishFansOutToConfirmedRecipients(t *testing.T) {
	s := setupTestStore(t)

	alice := subscribeConfirmed(t, s, "Alice", "alice@example.org")
	bob := subscribeConfirmed(t, s, "Bob", "bob@example.org")
	if _, err := s.Subscribe("Pending", "pending@example.org", testLinks); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	n, err := s.SaveNewsletter(Newsletter{
		Title:   "Spring Update",
		Summary: "<p>What happened this spring.</p>",
		Content: `<summary></summary><h1>Opening</h1><p>Hello!</p>`,
	})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}

	before, _ := s.ListEmails()

	fanout, err := s.Publish(n.ID, testLinks)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if fanout != 2 {
		t.Fatalf("fanout = %d, want 2 confirmed recipients", fanout)
	}

	got, err := s.GetNewsletter(n.ID)
	if err != nil {
		t.Fatalf("GetNewsletter failed: %v", err)
	}
	if got.Draft {
		t.Error("newsletter should no longer be a draft")
	}
	if got.DatePublished.IsZero() {
		t.Error("DatePublished should be set")
	}

	emails, err := s.ListEmails()
	if err != nil {
		t.Fatalf("ListEmails failed: %v", err)
	}
	newEmails := emails[len(before):]
	if len(newEmails) != 2 {
		t.Fatalf("new outbox rows = %d, want 2", len(newEmails))
	}
	for _, e := range newEmails {
		if e.Title != "Spring Update" {
			t.Errorf("Title = %q, want the newsletter title", e.Title)
		}
		if !strings.Contains(e.Content, `class="newsletter-summary"`) {
			t.Error("rendered body must prepend the summary")
		}
		if !strings.Contains(e.Content, `class="toc"`) {
			t.Error("rendered body must expand the toc marker")
		}
		if !strings.Contains(e.Content, "#opening") {
			t.Error("toc links must point at the permalink anchors")
		}
		switch e.RecipientID {
		case alice.ID:
			if !strings.Contains(e.Content, alice.Hash) {
				t.Error("each email must carry its own unsubscribe token")
			}
		case bob.ID:
			if !strings.Contains(e.Content, bob.Hash) {
				t.Error("each email must carry its own unsubscribe token")
			}
		default:
			t.Errorf("unexpected recipient %d", e.RecipientID)
		}
	}
}

func TestPublishWithNoConfirmedRecipients(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.SaveNewsletter(Newsletter{Title: "Quiet Issue", Content: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	fanout, err := s.Publish(n.ID, testLinks)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if fanout != 0 {
		t.Errorf("fanout = %d, want 0", fanout)
	}
	got, _ := s.GetNewsletter(n.ID)
	if got.Draft {
		t.Error("publishing to nobody still publishes the newsletter")
	}
}

func TestPublishTwiceFails(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.SaveNewsletter(Newsletter{Title: "Once Only", Content: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	if _, err := s.Publish(n.ID, testLinks); err != nil {
		t.Fatalf("first Publish failed: %v", err)
	}
	if _, err := s.Publish(n.ID, testLinks); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("second Publish err = %v, want ErrAlreadyPublished", err)
	}
}

func TestPublishedSlugIsFrozen(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.SaveNewsletter(Newsletter{Title: "Original Title", Content: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	if _, err := s.Publish(n.ID, testLinks); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	n.Title = "Corrected Title"
	saved, err := s.SaveNewsletter(n)
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	if saved.Slug != "original-title" {
		t.Errorf("Slug = %q, want frozen %q", saved.Slug, "original-title")
	}
	if saved.Title != "Corrected Title" {
		t.Errorf("Title = %q, the title itself may still change", saved.Title)
	}

	got, _ := s.GetNewsletter(n.ID)
	if got.Slug != "original-title" {
		t.Errorf("stored Slug = %q, want %q", got.Slug, "original-title")
	}
}

func TestPublishAttachesReferencedUploads(t *testing.T) {
	s := setupTestStore(t)
	subscribeConfirmed(t, s, "Alice", "alice@example.org")
	subscribeConfirmed(t, s, "Bob", "bob@example.org")

	f, err := s.CreateUploadedFile(UploadedFile{
		FileName: "poster.png", BaseName: "poster.png", MIME: "image/png", Size: 10,
	})
	if err != nil {
		t.Fatalf("CreateUploadedFile failed: %v", err)
	}
	if _, err := s.CreateUploadedFile(UploadedFile{
		FileName: "unused.pdf", BaseName: "unused.pdf", MIME: "application/pdf", Size: 10,
	}); err != nil {
		t.Fatalf("CreateUploadedFile failed: %v", err)
	}

	n, err := s.SaveNewsletter(Newsletter{
		Title: "With Poster",
		Content: `<p><img src="/uploads/poster.png"></p>` +
			`<p><img src="https://example.org/uploads/poster.png"></p>`,
	})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	if _, err := s.Publish(n.ID, testLinks); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	pending, err := s.PendingEmails()
	if err != nil {
		t.Fatalf("PendingEmails failed: %v", err)
	}
	for _, e := range pending {
		if strings.Contains(e.Content, "confirm") {
			continue // the confirmation emails from setup
		}
		if got := strings.Count(e.Content, "cid:poster.png"); got != 2 {
			t.Errorf("cid references = %d, want both URL forms rewritten", got)
		}
		files, err := s.AttachmentsForEmail(e.ID)
		if err != nil {
			t.Fatalf("AttachmentsForEmail failed: %v", err)
		}
		if len(files) != 1 || files[0].ID != f.ID {
			t.Errorf("attachments = %+v, want exactly the referenced upload", files)
		}
	}
}
