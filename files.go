package assoweb

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadSize = 10 << 20 // 10MB

// storageName derives a unique on-disk name from the uploaded name: the
// slugified base plus a short random suffix, keeping the extension. Uploading
// the same file twice yields two independent records.
func storageName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := Slugify(strings.TrimSuffix(original, filepath.Ext(original)))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], ext)
}

// sniffMIME detects the content type from the file's leading bytes, falling
// back to the extension for types the sniffer reports as generic.
func sniffMIME(src io.ReadSeeker, name string) (string, error) {
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	mt := http.DetectContentType(head[:n])
	if mt == "application/octet-stream" {
		if byExt := extMIME(filepath.Ext(name)); byExt != "" {
			return byExt, nil
		}
	}
	return mt, nil
}

func extMIME(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".ods":
		return "application/vnd.oasis.opendocument.spreadsheet"
	case ".odt":
		return "application/vnd.oasis.opendocument.text"
	}
	return ""
}

func openUpload(c echo.Context, field string) (*multipart.FileHeader, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	if fh.Size > maxUploadSize {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "File too large (max 10MB)")
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return fh, src, nil
}

func (a *App) handleAdminFileUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	fh, src, err := openUpload(c, "file")
	if err != nil {
		return err
	}
	defer src.Close()

	mt, err := sniffMIME(src, fh.Filename)
	if err != nil {
		return err
	}

	name := storageName(fh.Filename)
	dst, err := os.Create(filepath.Join(a.Config.UploadsDir(), name))
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write upload: %w", err)
	}

	if _, err := a.Store.CreateUploadedFile(UploadedFile{
		FileName:    name,
		BaseName:    fh.Filename,
		Size:        size,
		MIME:        mt,
		Description: strings.TrimSpace(c.FormValue("description")),
	}); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "files", "Uploaded "+fh.Filename+".")
}

func (a *App) handleAdminFileDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	f, err := a.Store.GetUploadedFile(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	if err := a.Store.DeleteUploadedFile(f.ID); err != nil {
		return err
	}
	// Best effort: the record is gone either way.
	_ = os.Remove(filepath.Join(a.Config.UploadsDir(), f.FileName))
	return a.renderAdminDashboard(c, "files", "deleted")
}
