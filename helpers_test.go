package assoweb

import "testing"

func TestBuildURL(t *testing.T) {
	cases := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.org", nil, "https://example.org"},
		{"https://example.org", []string{"page", "3", "our-history"}, "https://example.org/page/3/our-history/"},
		{"https://example.org/", []string{"newsletter"}, "https://example.org/newsletter/"},
	}
	for _, c := range cases {
		if got := BuildURL(c.base, c.segs...); got != c.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", c.base, c.segs, got, c.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello World", "hello-world"},
		{"  Assemblée générale 2026  ", "assemblee-generale-2026"},
		{"Rock & Roll!", "rock-and-roll"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
