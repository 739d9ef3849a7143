package assoweb

import (
	gslug "github.com/gosimple/slug"
)

// Slugify derives a lowercase, ASCII-folded, URL-safe slug from a title.
// Collisions between sibling entities are tolerated: routes carry the numeric
// id and treat the slug as a cosmetic check.
func Slugify(s string) string {
	return gslug.Make(s)
}
