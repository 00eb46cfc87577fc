package handler

import (
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// spoolUpload copies a multipart file field to a temp file and returns
// its path. Returns "" without error when the field is absent.
func spoolUpload(c echo.Context, field, dir string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
