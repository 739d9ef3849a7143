package assoweb

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetPage(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.SavePage(Page{Title: "Our History", Content: "<p>Founded in 1998.</p>", Visible: true})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected an id after insert")
	}
	if p.Slug != "our-history" {
		t.Errorf("Slug = %q, want %q", p.Slug, "our-history")
	}

	got, err := s.GetPage(p.ID)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if got.Title != "Our History" {
		t.Errorf("Title = %q, want %q", got.Title, "Our History")
	}
	if got.Content != p.Content {
		t.Errorf("Content = %q, want %q", got.Content, p.Content)
	}
	if got.DateCreated.IsZero() {
		t.Error("DateCreated should be set on insert")
	}
}

func TestPageSlugFollowsTitle(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.SavePage(Page{Title: "Before", Visible: true})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	p.Title = "After The Rename"
	if _, err := s.SavePage(p); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := s.GetPage(p.ID)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if got.Slug != "after-the-rename" {
		t.Errorf("Slug = %q, want %q", got.Slug, "after-the-rename")
	}
}

func TestListVisiblePages(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.SavePage(Page{Title: "Shown", Visible: true}); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}
	if _, err := s.SavePage(Page{Title: "Hidden", Visible: false}); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	visible, err := s.ListVisiblePages()
	if err != nil {
		t.Fatalf("ListVisiblePages failed: %v", err)
	}
	if len(visible) != 1 || visible[0].Title != "Shown" {
		t.Fatalf("visible = %+v, want only the Shown page", visible)
	}

	all, err := s.ListPages()
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
}

func TestDeleteCategoryKeepsPages(t *testing.T) {
	s := setupTestStore(t)

	cat, err := s.CreateCategory("Events", true)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	p, err := s.SavePage(Page{Title: "Summer Fair", CategoryID: cat.ID, Visible: true})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	if err := s.DeleteCategory(cat.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	got, err := s.GetPage(p.ID)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if got.CategoryID != 0 {
		t.Errorf("CategoryID = %d, want 0 after category delete", got.CategoryID)
	}
}

func TestNewsletterStartsAsDraft(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.SaveNewsletter(Newsletter{Title: "Spring Update"})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	if !n.Draft {
		t.Error("a new newsletter must be a draft")
	}
	if !n.DatePublished.IsZero() {
		t.Error("DatePublished must be zero while draft")
	}
	if n.Slug != "spring-update" {
		t.Errorf("Slug = %q, want %q", n.Slug, "spring-update")
	}

	published, err := s.ListPublishedNewsletters()
	if err != nil {
		t.Fatalf("ListPublishedNewsletters failed: %v", err)
	}
	if len(published) != 0 {
		t.Fatalf("drafts must not appear in the published list, got %d", len(published))
	}
}

func TestDraftNewsletterSlugFollowsTitle(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.SaveNewsletter(Newsletter{Title: "First Title"})
	if err != nil {
		t.Fatalf("SaveNewsletter failed: %v", err)
	}
	n.Title = "Second Title"
	got, err := s.SaveNewsletter(n)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.Slug != "second-title" {
		t.Errorf("Slug = %q, want %q while draft", got.Slug, "second-title")
	}
}

func TestMenuEntriesScopedByPosition(t *testing.T) {
	s := setupTestStore(t)

	for _, text := range []string{"Home", "About"} {
		if _, err := s.CreateMenuEntry(MenuEntry{Text: text, URL: "/", Position: MenuMain}); err != nil {
			t.Fatalf("CreateMenuEntry failed: %v", err)
		}
	}
	if _, err := s.CreateMenuEntry(MenuEntry{Text: "Legal", URL: "/legal/", Position: MenuSecondary}); err != nil {
		t.Fatalf("CreateMenuEntry failed: %v", err)
	}

	main, err := s.ListMenuEntries(MenuMain)
	if err != nil {
		t.Fatalf("ListMenuEntries failed: %v", err)
	}
	if len(main) != 2 {
		t.Fatalf("len(main) = %d, want 2", len(main))
	}
	if main[0].Order != 0 || main[1].Order != 1 {
		t.Errorf("main orders = %d,%d, want 0,1", main[0].Order, main[1].Order)
	}

	secondary, err := s.ListMenuEntries(MenuSecondary)
	if err != nil {
		t.Fatalf("ListMenuEntries failed: %v", err)
	}
	// Each position has its own dense ordering starting at zero.
	if len(secondary) != 1 || secondary[0].Order != 0 {
		t.Fatalf("secondary = %+v, want one entry at order 0", secondary)
	}
}

func TestAlbumThumbnailFallsBackToOldestPicture(t *testing.T) {
	s := setupTestStore(t)

	al, err := s.SaveAlbum(Album{Title: "Hike 2025"})
	if err != nil {
		t.Fatalf("SaveAlbum failed: %v", err)
	}

	if _, err := s.AlbumThumbnail(al); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty album thumbnail err = %v, want ErrNotFound", err)
	}

	first, err := s.CreatePicture(Picture{AlbumID: al.ID, FileName: "a.jpg", ThumbName: "thumb-a.jpg"})
	if err != nil {
		t.Fatalf("CreatePicture failed: %v", err)
	}
	second, err := s.CreatePicture(Picture{AlbumID: al.ID, FileName: "b.jpg", ThumbName: "thumb-b.jpg"})
	if err != nil {
		t.Fatalf("CreatePicture failed: %v", err)
	}

	pic, err := s.AlbumThumbnail(al)
	if err != nil {
		t.Fatalf("AlbumThumbnail failed: %v", err)
	}
	if pic.ID != first.ID {
		t.Errorf("fallback thumbnail = %d, want oldest picture %d", pic.ID, first.ID)
	}

	al.ThumbnailID = second.ID
	if _, err := s.SaveAlbum(al); err != nil {
		t.Fatalf("SaveAlbum failed: %v", err)
	}
	al, err = s.GetAlbum(al.ID)
	if err != nil {
		t.Fatalf("GetAlbum failed: %v", err)
	}
	pic, err = s.AlbumThumbnail(al)
	if err != nil {
		t.Fatalf("AlbumThumbnail failed: %v", err)
	}
	if pic.ID != second.ID {
		t.Errorf("explicit thumbnail = %d, want %d", pic.ID, second.ID)
	}
}

func TestDeleteAlbumCascadesPictures(t *testing.T) {
	s := setupTestStore(t)

	al, err := s.SaveAlbum(Album{Title: "Old Album"})
	if err != nil {
		t.Fatalf("SaveAlbum failed: %v", err)
	}
	p, err := s.CreatePicture(Picture{AlbumID: al.ID, FileName: "x.jpg", ThumbName: "thumb-x.jpg"})
	if err != nil {
		t.Fatalf("CreatePicture failed: %v", err)
	}

	if err := s.DeleteAlbum(al.ID); err != nil {
		t.Fatalf("DeleteAlbum failed: %v", err)
	}
	if _, err := s.GetPicture(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("picture err = %v, want ErrNotFound after album delete", err)
	}
}
