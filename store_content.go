package assoweb

import (
	"database/sql"
	"time"
)

// --- Categories ---

const categoryCols = `id, name, visible, ord`

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var c Category
	var visible int
	if err := row.Scan(&c.ID, &c.Name, &visible, &c.Order); err != nil {
		return Category{}, err
	}
	c.Visible = visible == 1
	return c, nil
}

// ListCategories returns categories in display order. When onlyVisible is
// set, hidden categories are skipped.
func (s *Store) ListCategories(onlyVisible bool) ([]Category, error) {
	query := `SELECT ` + categoryCols + ` FROM categories`
	if onlyVisible {
		query += ` WHERE visible = 1`
	}
	query += ` ORDER BY ord, id`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategory returns one category by id.
func (s *Store) GetCategory(id int64) (Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// CreateCategory appends a category at the end of the ordering.
func (s *Store) CreateCategory(name string, visible bool) (Category, error) {
	res, err := s.db.Exec(`
		INSERT INTO categories (name, visible, ord)
		VALUES (?, ?, (SELECT COALESCE(MAX(ord) + 1, 0) FROM categories))`,
		name, boolInt(visible))
	if err != nil {
		return Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, err
	}
	return s.GetCategory(id)
}

// UpdateCategory updates name and visibility; the order is only changed
// through MoveCategory.
func (s *Store) UpdateCategory(c Category) error {
	_, err := s.db.Exec(`UPDATE categories SET name = ?, visible = ? WHERE id = ?`,
		c.Name, boolInt(c.Visible), c.ID)
	return err
}

// DeleteCategory removes a category; pages referencing it become
// uncategorized via the FK SET NULL.
func (s *Store) DeleteCategory(id int64) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return err
}

// --- Pages ---

const pageCols = `id, title, slug, content, category_id, next_id, protected, visible, date_created`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var p Page
	var categoryID, nextID sql.NullInt64
	var protected, visible int
	var created string
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &categoryID, &nextID,
		&protected, &visible, &created); err != nil {
		return Page{}, err
	}
	p.CategoryID = scanID(categoryID)
	p.NextID = scanID(nextID)
	p.Protected = protected == 1
	p.Visible = visible == 1
	p.DateCreated = parseTime(created)
	return p, nil
}

// ListPages returns every page, newest first (admin view).
func (s *Store) ListPages() ([]Page, error) {
	return s.queryPages(`SELECT ` + pageCols + ` FROM pages ORDER BY id DESC`)
}

// ListVisiblePages returns public pages grouped for navigation.
func (s *Store) ListVisiblePages() ([]Page, error) {
	return s.queryPages(`SELECT ` + pageCols + ` FROM pages WHERE visible = 1 ORDER BY title`)
}

func (s *Store) queryPages(query string, args ...any) ([]Page, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPage returns one page by id.
func (s *Store) GetPage(id int64) (Page, error) {
	row := s.db.QueryRow(`SELECT `+pageCols+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// SavePage inserts or updates a page. The slug is always rederived from the
// title.
func (s *Store) SavePage(p Page) (Page, error) {
	p.Slug = Slugify(p.Title)
	if p.ID == 0 {
		p.DateCreated = time.Now()
		res, err := s.db.Exec(`
			INSERT INTO pages (title, slug, content, category_id, next_id, protected, visible, date_created)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Slug, p.Content, nullID(p.CategoryID), nullID(p.NextID),
			boolInt(p.Protected), boolInt(p.Visible), fmtTime(p.DateCreated))
		if err != nil {
			return Page{}, err
		}
		p.ID, err = res.LastInsertId()
		return p, err
	}
	_, err := s.db.Exec(`
		UPDATE pages SET title = ?, slug = ?, content = ?, category_id = ?, next_id = ?,
			protected = ?, visible = ? WHERE id = ?`,
		p.Title, p.Slug, p.Content, nullID(p.CategoryID), nullID(p.NextID),
		boolInt(p.Protected), boolInt(p.Visible), p.ID)
	return p, err
}

// DeletePage removes a page; pages pointing at it as "next" lose the link.
func (s *Store) DeletePage(id int64) error {
	_, err := s.db.Exec(`DELETE FROM pages WHERE id = ?`, id)
	return err
}

// --- Briefs ---

const briefCols = `id, title, slug, summary, content, visible, date_created`

func scanBrief(row interface{ Scan(...any) error }) (Brief, error) {
	var b Brief
	var visible int
	var created string
	if err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Summary, &b.Content, &visible, &created); err != nil {
		return Brief{}, err
	}
	b.Visible = visible == 1
	b.DateCreated = parseTime(created)
	return b, nil
}

// ListBriefs returns briefs newest first; onlyVisible restricts to public ones.
func (s *Store) ListBriefs(onlyVisible bool) ([]Brief, error) {
	query := `SELECT ` + briefCols + ` FROM briefs`
	if onlyVisible {
		query += ` WHERE visible = 1`
	}
	query += ` ORDER BY id DESC`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Brief
	for rows.Next() {
		b, err := scanBrief(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBrief returns one brief by id.
func (s *Store) GetBrief(id int64) (Brief, error) {
	row := s.db.QueryRow(`SELECT `+briefCols+` FROM briefs WHERE id = ?`, id)
	return scanBrief(row)
}

// SaveBrief inserts or updates a brief, rederiving the slug from the title.
func (s *Store) SaveBrief(b Brief) (Brief, error) {
	b.Slug = Slugify(b.Title)
	if b.ID == 0 {
		b.DateCreated = time.Now()
		res, err := s.db.Exec(`
			INSERT INTO briefs (title, slug, summary, content, visible, date_created)
			VALUES (?, ?, ?, ?, ?, ?)`,
			b.Title, b.Slug, b.Summary, b.Content, boolInt(b.Visible), fmtTime(b.DateCreated))
		if err != nil {
			return Brief{}, err
		}
		b.ID, err = res.LastInsertId()
		return b, err
	}
	_, err := s.db.Exec(`
		UPDATE briefs SET title = ?, slug = ?, summary = ?, content = ?, visible = ? WHERE id = ?`,
		b.Title, b.Slug, b.Summary, b.Content, boolInt(b.Visible), b.ID)
	return b, err
}

// DeleteBrief removes a brief.
func (s *Store) DeleteBrief(id int64) error {
	_, err := s.db.Exec(`DELETE FROM briefs WHERE id = ?`, id)
	return err
}

// --- Newsletters ---

const newsletterCols = `id, title, slug, summary, content, draft, date_published, date_created`

func scanNewsletter(row interface{ Scan(...any) error }) (Newsletter, error) {
	var n Newsletter
	var draft int
	var published sql.NullString
	var created string
	if err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Summary, &n.Content,
		&draft, &published, &created); err != nil {
		return Newsletter{}, err
	}
	n.Draft = draft == 1
	if published.Valid {
		n.DatePublished = parseTime(published.String)
	}
	n.DateCreated = parseTime(created)
	return n, nil
}

// ListNewsletters returns every newsletter, newest first (admin view).
func (s *Store) ListNewsletters() ([]Newsletter, error) {
	return s.queryNewsletters(`SELECT ` + newsletterCols + ` FROM newsletters ORDER BY id DESC`)
}

// ListPublishedNewsletters returns published newsletters, most recent first.
func (s *Store) ListPublishedNewsletters() ([]Newsletter, error) {
	return s.queryNewsletters(`SELECT ` + newsletterCols +
		` FROM newsletters WHERE draft = 0 ORDER BY date_published DESC`)
}

func (s *Store) queryNewsletters(query string, args ...any) ([]Newsletter, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Newsletter
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetNewsletter returns one newsletter by id.
func (s *Store) GetNewsletter(id int64) (Newsletter, error) {
	row := s.db.QueryRow(`SELECT `+newsletterCols+` FROM newsletters WHERE id = ?`, id)
	return scanNewsletter(row)
}

// SaveNewsletter inserts or updates a newsletter. New newsletters always
// start as drafts. While a newsletter is a draft its slug follows the title;
// once published the slug is frozen no matter how the title changes.
// Draft state and the publication date are only ever changed by Publish.
func (s *Store) SaveNewsletter(n Newsletter) (Newsletter, error) {
	if n.ID == 0 {
		n.Draft = true
		n.Slug = Slugify(n.Title)
		n.DateCreated = time.Now()
		res, err := s.db.Exec(`
			INSERT INTO newsletters (title, slug, summary, content, draft, date_created)
			VALUES (?, ?, ?, ?, 1, ?)`,
			n.Title, n.Slug, n.Summary, n.Content, fmtTime(n.DateCreated))
		if err != nil {
			return Newsletter{}, err
		}
		n.ID, err = res.LastInsertId()
		return n, err
	}

	existing, err := s.GetNewsletter(n.ID)
	if err != nil {
		return Newsletter{}, err
	}
	if existing.Draft {
		n.Slug = Slugify(n.Title)
	} else {
		n.Slug = existing.Slug
	}
	n.Draft = existing.Draft
	n.DatePublished = existing.DatePublished
	_, err = s.db.Exec(`
		UPDATE newsletters SET title = ?, slug = ?, summary = ?, content = ? WHERE id = ?`,
		n.Title, n.Slug, n.Summary, n.Content, n.ID)
	return n, err
}

// DeleteNewsletter removes a newsletter. Outbox rows already created by a
// publish are kept: they belong to recipients, not to the newsletter.
func (s *Store) DeleteNewsletter(id int64) error {
	_, err := s.db.Exec(`DELETE FROM newsletters WHERE id = ?`, id)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
