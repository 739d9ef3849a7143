package assoweb

import (
	"database/sql"
)

// --- Recipients ---

const recipientCols = `id, name, email, hash, confirmed, date_created`

func scanRecipient(row interface{ Scan(...any) error }) (Recipient, error) {
	var r Recipient
	var confirmed int
	var created string
	if err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Hash, &confirmed, &created); err != nil {
		return Recipient{}, err
	}
	r.Confirmed = confirmed == 1
	r.DateCreated = parseTime(created)
	return r, nil
}

// ListRecipients returns every recipient, confirmed or not (admin view).
func (s *Store) ListRecipients() ([]Recipient, error) {
	rows, err := s.db.Query(`SELECT ` + recipientCols + ` FROM recipients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecipients(rows)
}

func collectRecipients(rows *sql.Rows) ([]Recipient, error) {
	var out []Recipient
	for rows.Next() {
		r, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRecipient returns one recipient by id.
func (s *Store) GetRecipient(id int64) (Recipient, error) {
	row := s.db.QueryRow(`SELECT `+recipientCols+` FROM recipients WHERE id = ?`, id)
	return scanRecipient(row)
}

func confirmedRecipientsTx(tx *sql.Tx) ([]Recipient, error) {
	rows, err := tx.Query(`SELECT ` + recipientCols + ` FROM recipients WHERE confirmed = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecipients(rows)
}

func unconfirmedRecipientsTx(tx *sql.Tx) ([]Recipient, error) {
	rows, err := tx.Query(`SELECT ` + recipientCols + ` FROM recipients WHERE confirmed = 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecipients(rows)
}

// --- Emails (outbox) ---

const emailCols = `id, title, content, sent, recipient_id`

func scanEmail(row interface{ Scan(...any) error }) (Email, error) {
	var e Email
	var sent int
	if err := row.Scan(&e.ID, &e.Title, &e.Content, &sent, &e.RecipientID); err != nil {
		return Email{}, err
	}
	e.Sent = sent == 1
	return e, nil
}

// ListEmails returns every outbox row, oldest first.
func (s *Store) ListEmails() ([]Email, error) {
	return s.queryEmails(`SELECT ` + emailCols + ` FROM emails ORDER BY id`)
}

// PendingEmails returns outbox rows not yet handed to a backend.
func (s *Store) PendingEmails() ([]Email, error) {
	return s.queryEmails(`SELECT ` + emailCols + ` FROM emails WHERE sent = 0 ORDER BY id`)
}

func (s *Store) queryEmails(query string, args ...any) ([]Email, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// pendingEmail carries an outbox row joined with its recipient's address.
type pendingEmail struct {
	Email
	RecipientName  string
	RecipientEmail string
}

func pendingEmailsTx(tx *sql.Tx) ([]pendingEmail, error) {
	rows, err := tx.Query(`
		SELECT e.id, e.title, e.content, e.sent, e.recipient_id, r.name, r.email
		FROM emails e JOIN recipients r ON r.id = e.recipient_id
		WHERE e.sent = 0 ORDER BY e.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []pendingEmail
	for rows.Next() {
		var p pendingEmail
		var sent int
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &sent, &p.RecipientID,
			&p.RecipientName, &p.RecipientEmail); err != nil {
			return nil, err
		}
		p.Sent = sent == 1
		out = append(out, p)
	}
	return out, rows.Err()
}

// AttachmentsForEmail returns the uploaded files linked to one outbox email.
func (s *Store) AttachmentsForEmail(emailID int64) ([]UploadedFile, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.file_name, f.base_name, f.size, f.mime, f.description, f.date_created
		FROM email_attachments a JOIN uploaded_files f ON f.id = a.file_id
		WHERE a.email_id = ? ORDER BY a.id`, emailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUploadedFiles(rows)
}

func attachmentsForEmailTx(tx *sql.Tx, emailID int64) ([]UploadedFile, error) {
	rows, err := tx.Query(`
		SELECT f.id, f.file_name, f.base_name, f.size, f.mime, f.description, f.date_created
		FROM email_attachments a JOIN uploaded_files f ON f.id = a.file_id
		WHERE a.email_id = ? ORDER BY a.id`, emailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUploadedFiles(rows)
}

func collectUploadedFiles(rows *sql.Rows) ([]UploadedFile, error) {
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
