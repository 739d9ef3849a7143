package assoweb

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// InlineAttachment is embedded in the HTML part of a message and addressed
// from the body as cid:<Name>.
type InlineAttachment struct {
	Name    string
	MIME    string
	Content []byte
}

// OutboundEmail is the structured message handed to a mail backend.
type OutboundEmail struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	Inline  []InlineAttachment
}

func (e OutboundEmail) message() *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)
	if e.ReplyTo != "" {
		m.SetHeader("Reply-To", e.ReplyTo)
	}
	m.SetBody("text/plain", e.Text)
	m.AddAlternative("text/html", e.HTML)
	for _, att := range e.Inline {
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.Content)
				return err
			}),
		}
		if att.MIME != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.MIME},
			}))
		}
		// gomail keys the Content-ID on the embed name, which is the
		// attached file's on-disk name throughout this codebase.
		m.Embed(att.Name, settings...)
	}
	return m
}

// Mailer delivers one message. It either completes or returns an error; no
// other result is consumed by the caller.
type Mailer interface {
	Send(e OutboundEmail) error
}

// SMTPMailer sends through an SMTP relay, dialing per message. Fine for a
// few dozen recipients per bot tick.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer builds a mailer for the given relay.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, username, password)}
}

func (s *SMTPMailer) Send(e OutboundEmail) error {
	return s.dialer.DialAndSend(e.message())
}

// FileMailer is the dev/test backend: instead of sending, it appends a
// human-readable envelope followed by the raw MIME message to a flat file,
// so integration tests can assert on what would have been sent without a
// mail account.
type FileMailer struct {
	mu   sync.Mutex
	path string
}

// NewFileMailer writes transcripts to path, creating it on first send.
func NewFileMailer(path string) *FileMailer {
	return &FileMailer{path: path}
}

func (f *FileMailer) Send(e OutboundEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer fd.Close()

	if _, err := fmt.Fprintf(fd, "=== %s\nTo: %s\nSubject: %s\nAttachments: %d\n\n",
		time.Now().Format(time.RFC3339), e.To, e.Subject, len(e.Inline)); err != nil {
		return err
	}
	if _, err := e.message().WriteTo(fd); err != nil {
		return err
	}
	_, err = fmt.Fprint(fd, "\n\n")
	return err
}
