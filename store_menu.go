package assoweb

// --- Menu entries ---

const menuCols = `id, text, url, highlight, position, ord`

func scanMenuEntry(row interface{ Scan(...any) error }) (MenuEntry, error) {
	var m MenuEntry
	var highlight, position int
	if err := row.Scan(&m.ID, &m.Text, &m.URL, &highlight, &position, &m.Order); err != nil {
		return MenuEntry{}, err
	}
	m.Highlight = highlight == 1
	m.Position = MenuPosition(position)
	return m, nil
}

// ListMenuEntries returns the entries of one position scope in display order.
func (s *Store) ListMenuEntries(pos MenuPosition) ([]MenuEntry, error) {
	rows, err := s.db.Query(`SELECT `+menuCols+` FROM menu_entries WHERE position = ? ORDER BY ord, id`, int(pos))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MenuEntry
	for rows.Next() {
		m, err := scanMenuEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMenuEntry returns one menu entry by id.
func (s *Store) GetMenuEntry(id int64) (MenuEntry, error) {
	row := s.db.QueryRow(`SELECT `+menuCols+` FROM menu_entries WHERE id = ?`, id)
	return scanMenuEntry(row)
}

// CreateMenuEntry appends an entry at the end of its position scope. Each
// position is ranked independently even though both share the table.
func (s *Store) CreateMenuEntry(m MenuEntry) (MenuEntry, error) {
	res, err := s.db.Exec(`
		INSERT INTO menu_entries (text, url, highlight, position, ord)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(ord) + 1, 0) FROM menu_entries WHERE position = ?))`,
		m.Text, m.URL, boolInt(m.Highlight), int(m.Position), int(m.Position))
	if err != nil {
		return MenuEntry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return MenuEntry{}, err
	}
	return s.GetMenuEntry(id)
}

// UpdateMenuEntry updates an entry in place. Moving an entry between
// positions re-appends it at the end of the target scope.
func (s *Store) UpdateMenuEntry(m MenuEntry) error {
	existing, err := s.GetMenuEntry(m.ID)
	if err != nil {
		return err
	}
	if existing.Position != m.Position {
		_, err = s.db.Exec(`
			UPDATE menu_entries SET text = ?, url = ?, highlight = ?, position = ?,
				ord = (SELECT COALESCE(MAX(ord) + 1, 0) FROM menu_entries WHERE position = ?)
			WHERE id = ?`,
			m.Text, m.URL, boolInt(m.Highlight), int(m.Position), int(m.Position), m.ID)
		return err
	}
	_, err = s.db.Exec(`UPDATE menu_entries SET text = ?, url = ?, highlight = ? WHERE id = ?`,
		m.Text, m.URL, boolInt(m.Highlight), m.ID)
	return err
}

// DeleteMenuEntry removes a menu entry.
func (s *Store) DeleteMenuEntry(id int64) error {
	_, err := s.db.Exec(`DELETE FROM menu_entries WHERE id = ?`, id)
	return err
}

// --- Blocks ---

const blockCols = `id, title, content, ord`

func scanBlock(row interface{ Scan(...any) error }) (Block, error) {
	var b Block
	if err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Order); err != nil {
		return Block{}, err
	}
	return b, nil
}

// ListBlocks returns home-page blocks in display order.
func (s *Store) ListBlocks() ([]Block, error) {
	rows, err := s.db.Query(`SELECT ` + blockCols + ` FROM blocks ORDER BY ord, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBlock returns one block by id.
func (s *Store) GetBlock(id int64) (Block, error) {
	row := s.db.QueryRow(`SELECT `+blockCols+` FROM blocks WHERE id = ?`, id)
	return scanBlock(row)
}

// CreateBlock appends a block at the end of the ordering.
func (s *Store) CreateBlock(b Block) (Block, error) {
	res, err := s.db.Exec(`
		INSERT INTO blocks (title, content, ord)
		VALUES (?, ?, (SELECT COALESCE(MAX(ord) + 1, 0) FROM blocks))`,
		b.Title, b.Content)
	if err != nil {
		return Block{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Block{}, err
	}
	return s.GetBlock(id)
}

// UpdateBlock updates title and content.
func (s *Store) UpdateBlock(b Block) error {
	_, err := s.db.Exec(`UPDATE blocks SET title = ?, content = ? WHERE id = ?`,
		b.Title, b.Content, b.ID)
	return err
}

// DeleteBlock removes a block.
func (s *Store) DeleteBlock(id int64) error {
	_, err := s.db.Exec(`DELETE FROM blocks WHERE id = ?`, id)
	return err
}

// --- Featured cards ---

const featuredCols = `id, title, link, link_text, image_link, text, ord`

func scanFeatured(row interface{ Scan(...any) error }) (Featured, error) {
	var f Featured
	if err := row.Scan(&f.ID, &f.Title, &f.Link, &f.LinkText, &f.ImageLink, &f.Text, &f.Order); err != nil {
		return Featured{}, err
	}
	return f, nil
}

// ListFeatured returns featured cards in display order.
func (s *Store) ListFeatured() ([]Featured, error) {
	rows, err := s.db.Query(`SELECT ` + featuredCols + ` FROM featured ORDER BY ord, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Featured
	for rows.Next() {
		f, err := scanFeatured(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFeatured returns one featured card by id.
func (s *Store) GetFeatured(id int64) (Featured, error) {
	row := s.db.QueryRow(`SELECT `+featuredCols+` FROM featured WHERE id = ?`, id)
	return scanFeatured(row)
}

// CreateFeatured appends a featured card at the end of the ordering.
func (s *Store) CreateFeatured(f Featured) (Featured, error) {
	res, err := s.db.Exec(`
		INSERT INTO featured (title, link, link_text, image_link, text, ord)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(ord) + 1, 0) FROM featured))`,
		f.Title, f.Link, f.LinkText, f.ImageLink, f.Text)
	if err != nil {
		return Featured{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Featured{}, err
	}
	return s.GetFeatured(id)
}

// UpdateFeatured updates a featured card in place.
func (s *Store) UpdateFeatured(f Featured) error {
	_, err := s.db.Exec(`
		UPDATE featured SET title = ?, link = ?, link_text = ?, image_link = ?, text = ? WHERE id = ?`,
		f.Title, f.Link, f.LinkText, f.ImageLink, f.Text, f.ID)
	return err
}

// DeleteFeatured removes a featured card.
func (s *Store) DeleteFeatured(id int64) error {
	_, err := s.db.Exec(`DELETE FROM featured WHERE id = ?`, id)
	return err
}
