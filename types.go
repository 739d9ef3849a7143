package assoweb

import "time"

// Category groups pages in the navigation. Ordered.
type Category struct {
	ID      int64
	Name    string
	Visible bool
	Order   int
}

// Page is a public content page. The slug is regenerated on every title
// change; routing pairs it with the numeric id, so collisions are tolerated.
type Page struct {
	ID          int64
	Title       string
	Slug        string
	Content     string
	CategoryID  int64 // 0 = uncategorized
	NextID      int64 // 0 = no follow-up page
	Protected   bool
	Visible     bool
	DateCreated time.Time
}

// Brief is a short news item shown on the home page.
type Brief struct {
	ID          int64
	Title       string
	Slug        string
	Summary     string
	Content     string
	Visible     bool
	DateCreated time.Time
}

// Newsletter is the only content entity with a draft/published lifecycle.
// Once published its slug and DatePublished never change again.
type Newsletter struct {
	ID            int64
	Title         string
	Slug          string
	Summary       string
	Content       string
	Draft         bool
	DatePublished time.Time // zero while draft
	DateCreated   time.Time
}

// Recipient is a newsletter subscriber. Hash is an opaque capability token
// carried by confirm/unsubscribe links.
type Recipient struct {
	ID          int64
	Name        string
	Email       string
	Hash        string
	Confirmed   bool
	DateCreated time.Time
}

// Email is one outbox row: fully rendered, recipient-specific HTML waiting
// for the delivery bot. Sent is flipped once and never reset.
type Email struct {
	ID          int64
	Title       string
	Content     string
	Sent        bool
	RecipientID int64
}

// EmailAttachment links an outbox email to an uploaded file embedded as an
// inline cid attachment.
type EmailAttachment struct {
	ID      int64
	EmailID int64
	FileID  int64
}

// UploadedFile is a binary asset stored under the uploads directory.
type UploadedFile struct {
	ID          int64
	FileName    string // on-disk name, unique
	BaseName    string // name the admin uploaded it with
	Size        int64
	MIME        string
	Description string
	DateCreated time.Time
}

// MenuPosition splits menu entries into two independently ordered scopes
// sharing one table.
type MenuPosition int

const (
	MenuMain MenuPosition = iota
	MenuSecondary
)

// MenuEntry is a navigation link. Ordered per position.
type MenuEntry struct {
	ID        int64
	Text      string
	URL       string
	Highlight bool
	Position  MenuPosition
	Order     int
}

// Block is a rich-text block rendered on the home page. Ordered.
type Block struct {
	ID      int64
	Title   string
	Content string
	Order   int
}

// Album is an ordered photo album.
type Album struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	ThumbnailID int64 // 0 = fall back to first picture
	Order       int
}

// Picture belongs to an album and has a pre-generated thumbnail.
type Picture struct {
	ID        int64
	AlbumID   int64
	FileName  string
	ThumbName string
	Size      int64
	DateTaken time.Time
}

// Featured is a card on the home page carousel. Ordered.
type Featured struct {
	ID        int64
	Title     string
	Link      string
	LinkText  string
	ImageLink string
	Text      string
	Order     int
}

// HomeData is everything the home view needs in one fetch.
type HomeData struct {
	MainMenu      []MenuEntry
	SecondaryMenu []MenuEntry
	Blocks        []Block
	Featured      []Featured
	Briefs        []Brief
}
