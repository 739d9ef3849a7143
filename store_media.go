package assoweb

import (
	"database/sql"
	"time"
)

// --- Uploaded files ---

const fileCols = `id, file_name, base_name, size, mime, description, date_created`

func scanUploadedFile(row interface{ Scan(...any) error }) (UploadedFile, error) {
	var f UploadedFile
	var created string
	if err := row.Scan(&f.ID, &f.FileName, &f.BaseName, &f.Size, &f.MIME,
		&f.Description, &created); err != nil {
		return UploadedFile{}, err
	}
	f.DateCreated = parseTime(created)
	return f, nil
}

// ListUploadedFiles returns every uploaded file, newest first.
func (s *Store) ListUploadedFiles() ([]UploadedFile, error) {
	rows, err := s.db.Query(`SELECT ` + fileCols + ` FROM uploaded_files ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UploadedFile
	for rows.Next() {
		f, err := scanUploadedFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetUploadedFile returns one file record by id.
func (s *Store) GetUploadedFile(id int64) (UploadedFile, error) {
	row := s.db.QueryRow(`SELECT `+fileCols+` FROM uploaded_files WHERE id = ?`, id)
	return scanUploadedFile(row)
}

// CreateUploadedFile records an uploaded file's metadata.
func (s *Store) CreateUploadedFile(f UploadedFile) (UploadedFile, error) {
	f.DateCreated = time.Now()
	res, err := s.db.Exec(`
		INSERT INTO uploaded_files (file_name, base_name, size, mime, description, date_created)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.FileName, f.BaseName, f.Size, f.MIME, f.Description, fmtTime(f.DateCreated))
	if err != nil {
		return UploadedFile{}, err
	}
	f.ID, err = res.LastInsertId()
	return f, err
}

// DeleteUploadedFile removes a file record; attachment rows referencing it
// cascade away. The caller removes the file from disk.
func (s *Store) DeleteUploadedFile(id int64) error {
	_, err := s.db.Exec(`DELETE FROM uploaded_files WHERE id = ?`, id)
	return err
}

// --- Albums ---

const albumCols = `id, title, slug, description, thumbnail_id, ord`

func scanAlbum(row interface{ Scan(...any) error }) (Album, error) {
	var a Album
	var thumb sql.NullInt64
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Description, &thumb, &a.Order); err != nil {
		return Album{}, err
	}
	a.ThumbnailID = scanID(thumb)
	return a, nil
}

// ListAlbums returns albums in display order.
func (s *Store) ListAlbums() ([]Album, error) {
	rows, err := s.db.Query(`SELECT ` + albumCols + ` FROM albums ORDER BY ord, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAlbum returns one album by id.
func (s *Store) GetAlbum(id int64) (Album, error) {
	row := s.db.QueryRow(`SELECT `+albumCols+` FROM albums WHERE id = ?`, id)
	return scanAlbum(row)
}

// SaveAlbum inserts (appending to the ordering) or updates an album. The
// slug always follows the title.
func (s *Store) SaveAlbum(a Album) (Album, error) {
	a.Slug = Slugify(a.Title)
	if a.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO albums (title, slug, description, ord)
			VALUES (?, ?, ?, (SELECT COALESCE(MAX(ord) + 1, 0) FROM albums))`,
			a.Title, a.Slug, a.Description)
		if err != nil {
			return Album{}, err
		}
		a.ID, err = res.LastInsertId()
		if err != nil {
			return Album{}, err
		}
		return s.GetAlbum(a.ID)
	}
	_, err := s.db.Exec(`
		UPDATE albums SET title = ?, slug = ?, description = ?, thumbnail_id = ? WHERE id = ?`,
		a.Title, a.Slug, a.Description, nullID(a.ThumbnailID), a.ID)
	return a, err
}

// DeleteAlbum removes an album; its pictures cascade away. The caller removes
// the picture files from disk first.
func (s *Store) DeleteAlbum(id int64) error {
	_, err := s.db.Exec(`DELETE FROM albums WHERE id = ?`, id)
	return err
}

// AlbumThumbnail resolves the album's cover: the explicit thumbnail if set,
// otherwise the oldest picture.
func (s *Store) AlbumThumbnail(a Album) (Picture, error) {
	if a.ThumbnailID != 0 {
		return s.GetPicture(a.ThumbnailID)
	}
	row := s.db.QueryRow(`SELECT `+pictureCols+
		` FROM pictures WHERE album_id = ? ORDER BY date_taken, id LIMIT 1`, a.ID)
	return scanPicture(row)
}

// --- Pictures ---

const pictureCols = `id, album_id, file_name, thumb_name, size, date_taken`

func scanPicture(row interface{ Scan(...any) error }) (Picture, error) {
	var p Picture
	var taken string
	if err := row.Scan(&p.ID, &p.AlbumID, &p.FileName, &p.ThumbName, &p.Size, &taken); err != nil {
		return Picture{}, err
	}
	p.DateTaken = parseTime(taken)
	return p, nil
}

// ListPictures returns an album's pictures, oldest first.
func (s *Store) ListPictures(albumID int64) ([]Picture, error) {
	rows, err := s.db.Query(`SELECT `+pictureCols+
		` FROM pictures WHERE album_id = ? ORDER BY date_taken, id`, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Picture
	for rows.Next() {
		p, err := scanPicture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPicture returns one picture by id.
func (s *Store) GetPicture(id int64) (Picture, error) {
	row := s.db.QueryRow(`SELECT `+pictureCols+` FROM pictures WHERE id = ?`, id)
	return scanPicture(row)
}

// CreatePicture records a processed picture.
func (s *Store) CreatePicture(p Picture) (Picture, error) {
	if p.DateTaken.IsZero() {
		p.DateTaken = time.Now()
	}
	res, err := s.db.Exec(`
		INSERT INTO pictures (album_id, file_name, thumb_name, size, date_taken)
		VALUES (?, ?, ?, ?, ?)`,
		p.AlbumID, p.FileName, p.ThumbName, p.Size, fmtTime(p.DateTaken))
	if err != nil {
		return Picture{}, err
	}
	p.ID, err = res.LastInsertId()
	return p, err
}

// DeletePicture removes a picture record. The caller removes the files.
func (s *Store) DeletePicture(id int64) error {
	_, err := s.db.Exec(`DELETE FROM pictures WHERE id = ?`, id)
	return err
}
