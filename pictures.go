package assoweb

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/webp"
)

const (
	maxPictureWidth = 1600
	thumbWidth      = 400
	thumbHeight     = 300
	jpegQuality     = 80
)

// processPicture decodes an image, downscales it to maxPictureWidth if
// needed, and renders a thumbnail that fits thumbWidth x thumbHeight. Both
// outputs are JPEG.
func processPicture(src io.Reader) (full, thumb []byte, err error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxPictureWidth {
		newH := h * maxPictureWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxPictureWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxPictureWidth, newH
	}

	tw, th := w, h
	if tw > thumbWidth {
		th = th * thumbWidth / tw
		tw = thumbWidth
	}
	if th > thumbHeight {
		tw = tw * thumbHeight / th
		th = thumbHeight
	}
	tdst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(tdst, tdst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var fullBuf, thumbBuf bytes.Buffer
	if err := jpeg.Encode(&fullBuf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, nil, fmt.Errorf("encode jpeg: %w", err)
	}
	if err := jpeg.Encode(&thumbBuf, tdst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return fullBuf.Bytes(), thumbBuf.Bytes(), nil
}

// --- Album admin ---

func (a *App) handleAdminAlbumForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var al Album
	if id := parseID(c, "id"); id != 0 {
		var err error
		if al, err = a.Store.GetAlbum(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
		pics, err := a.Store.ListPictures(al.ID)
		if err != nil {
			return err
		}
		return Render(c, a.Views.AdminAlbum(al, pics, c.QueryParam("msg"), CsrfToken(c)))
	}
	form := FormSpec{
		Title:  "Album",
		Action: "/admin/album/save/",
		Fields: []FormField{
			hiddenField("id", 0),
			textField("title", "Title", ""),
			textareaField("description", "Description", "", 5),
		},
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminAlbumSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return a.renderAdminDashboard(c, "albums", "An album needs a title.")
	}
	al := Album{
		ID:          formID(c, "id"),
		Title:       title,
		Description: c.FormValue("description"),
		ThumbnailID: formID(c, "thumbnail_id"),
	}
	if _, err := a.Store.SaveAlbum(al); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "albums", "saved")
}

func (a *App) handleAdminAlbumDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	al, err := a.Store.GetAlbum(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	pics, err := a.Store.ListPictures(al.ID)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteAlbum(al.ID); err != nil {
		return err
	}
	for _, p := range pics {
		a.removePictureFiles(p)
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "albums", "deleted")
}

func (a *App) handleAdminAlbumMove(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	dir, ok := parseDir(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := a.Store.MoveAlbum(parseID(c, "id"), dir); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "albums", "")
}

// --- Pictures ---

func (a *App) handleAdminPictureUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	al, err := a.Store.GetAlbum(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}

	fh, src, err := openUpload(c, "picture")
	if err != nil {
		return err
	}
	defer src.Close()

	full, thumb, err := processPicture(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	base := Slugify(strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)))
	if base == "" {
		base = "picture"
	}
	name := storageName(base + ".jpg")
	thumbName := "thumb-" + name

	dir := a.Config.PicturesDir()
	if err := os.WriteFile(filepath.Join(dir, name), full, 0o644); err != nil {
		return fmt.Errorf("write picture: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, thumbName), thumb, 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}

	if _, err := a.Store.CreatePicture(Picture{
		AlbumID:   al.ID,
		FileName:  name,
		ThumbName: thumbName,
		Size:      int64(len(full)),
	}); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther,
		"/admin/album/"+strconv.FormatInt(al.ID, 10)+"/?msg=Picture+added.")
}

func (a *App) handleAdminPictureDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p, err := a.Store.GetPicture(parseID(c, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	if err := a.Store.DeletePicture(p.ID); err != nil {
		return err
	}
	a.removePictureFiles(p)
	return c.Redirect(http.StatusSeeOther,
		"/admin/album/"+strconv.FormatInt(p.AlbumID, 10)+"/?msg=Picture+removed.")
}

func (a *App) removePictureFiles(p Picture) {
	dir := a.Config.PicturesDir()
	_ = os.Remove(filepath.Join(dir, p.FileName))
	_ = os.Remove(filepath.Join(dir, p.ThumbName))
}
