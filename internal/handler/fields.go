package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/labstack/echo/v4"
)

const paymentScreenshotField = "payment_ss"

var errEmptyBody = errors.New("empty request body")

// readFields returns the submitted scalar fields of a JSON, urlencoded or
// multipart request. Form fields keep their first value; other bodies go
// through echo's binder.
func readFields(c echo.Context) (map[string]any, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) || strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		values, err := c.FormParams()
		if err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		raw := make(map[string]any, len(values))
		for k, v := range values {
			if len(v) > 0 {
				raw[k] = v[0]
			}
		}
		return raw, nil
	}

	if c.Request().ContentLength == 0 {
		return nil, errEmptyBody
	}
	raw := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyBody
		}
		return nil, fmt.Errorf("bind body: %w", err)
	}
	return raw, nil
}

// readAttachment returns the payment screenshot of a multipart request, or nil
// when none was sent.
func readAttachment(c echo.Context, maxBytes int64) (*service.Attachment, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	fh, err := c.FormFile(paymentScreenshotField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body").SetInternal(err)
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("payment screenshot exceeds %d bytes", maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable payment screenshot").SetInternal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable payment screenshot").SetInternal(err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &service.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}
