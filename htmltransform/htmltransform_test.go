package htmltransform

import (
	"strings"
	"testing"
)

func TestExpandTOCBuildsLinkedList(t *testing.T) {
	content := `<summary></summary><h1>Opening Words</h1><p>hi</p><h1>Agenda</h1>`

	out := ExpandTOC(content, "")

	if strings.Contains(out, "<summary") {
		t.Error("the marker element should be removed")
	}
	if !strings.Contains(out, `<ol class="toc">`) {
		t.Errorf("missing toc list in %q", out)
	}
	if !strings.Contains(out, `<a href="#opening-words">Opening Words</a>`) {
		t.Errorf("missing first toc link in %q", out)
	}
	if !strings.Contains(out, `<h1 id="agenda">Agenda</h1>`) {
		t.Errorf("second heading should carry its anchor id, got %q", out)
	}
}

func TestExpandTOCWithLinkPrefix(t *testing.T) {
	content := `<summary></summary><h1>News</h1>`

	out := ExpandTOC(content, "https://example.org/newsletter/3/spring/")

	want := `href="https://example.org/newsletter/3/spring/#news"`
	if !strings.Contains(out, want) {
		t.Errorf("toc link should carry the permalink prefix, got %q", out)
	}
}

func TestExpandTOCDuplicateHeadings(t *testing.T) {
	content := `<summary></summary><h1>Events</h1><h1>Events</h1>`

	out := ExpandTOC(content, "")

	if !strings.Contains(out, `id="events"`) || !strings.Contains(out, `id="events-2"`) {
		t.Errorf("duplicate headings need distinct anchors, got %q", out)
	}
}

func TestExpandTOCWithoutMarkerPassesThrough(t *testing.T) {
	content := `<h1>Untouched</h1><p>text</p>`
	if out := ExpandTOC(content, ""); out != content {
		t.Errorf("content without marker changed: %q", out)
	}
}

func TestRewriteInlineImages(t *testing.T) {
	content := `<p><img src="/uploads/logo.png"></p>` +
		`<p><img src="/uploads/logo.png"></p>` +
		`<p><img src="https://elsewhere.example/pic.jpg"></p>`

	out, cids := RewriteInlineImages(content, func(src string) (string, bool) {
		if src == "/uploads/logo.png" {
			return "logo.png", true
		}
		return "", false
	})

	if got := strings.Count(out, `src="cid:logo.png"`); got != 2 {
		t.Errorf("cid substitutions = %d, want 2 in %q", got, out)
	}
	if !strings.Contains(out, `src="https://elsewhere.example/pic.jpg"`) {
		t.Errorf("foreign image should be untouched in %q", out)
	}
	if len(cids) != 1 || cids[0] != "logo.png" {
		t.Errorf("cids = %v, want one deduplicated entry", cids)
	}
}

func TestRewriteInlineImagesNoMatchUnchanged(t *testing.T) {
	content := `<p><img src="https://elsewhere.example/pic.jpg"></p>`
	out, cids := RewriteInlineImages(content, func(string) (string, bool) { return "", false })
	if out != content {
		t.Errorf("content changed without matches: %q", out)
	}
	if cids != nil {
		t.Errorf("cids = %v, want nil", cids)
	}
}

func TestText(t *testing.T) {
	content := `<h1>Title</h1><p>First <strong>bold</strong> line.</p><ul><li>a</li><li>b</li></ul>`

	out := Text(content)

	if !strings.Contains(out, "Title\n") {
		t.Errorf("heading should end a line in %q", out)
	}
	if !strings.Contains(out, "First bold line.") {
		t.Errorf("inline markup should flatten to text in %q", out)
	}
	if !strings.Contains(out, "a\nb") {
		t.Errorf("list items should be line-separated in %q", out)
	}
}
