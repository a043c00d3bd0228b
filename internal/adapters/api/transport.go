package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/apierr"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Upload streams the file to POST /uploads as multipart form data. Retries are
// only attempted when body can be rewound.
func (c *Client) Upload(ctx context.Context, file domain.FileCandidate, body io.Reader) (*domain.UploadedFile, error) {
	seeker, rewindable := body.(io.Seeker)
	retries := 0
	if rewindable {
		retries = c.cfg.MaxRetries
	}

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	requestID := uuid.NewString()

	newReq := func() (*http.Request, error) {
		if rewindable {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("rewind %s: %w", file.FileName, err)
			}
		}

		pr, pw := io.Pipe()
		mw := multipart.NewWriter(pw)
		go func() {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.FileName)))
			h.Set("Content-Type", contentType)
			part, err := mw.CreatePart(h)
			if err == nil {
				_, err = io.Copy(part, body)
			}
			if err == nil {
				err = mw.Close()
			}
			pw.CloseWithError(err)
		}()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/uploads"), pr)
		if err != nil {
			pr.Close()
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		c.authorize(req)
		return req, nil
	}

	raw, err := c.send(ctx, "POST /uploads", retries, newReq)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.FileName, err)
	}

	var uploaded domain.UploadedFile
	if err := json.Unmarshal(unwrapData(raw), &uploaded); err != nil {
		return nil, apierr.New(0, "decode_error", fmt.Errorf("decode upload response: %w", err))
	}
	if uploaded.FileURL == "" {
		return nil, apierr.New(0, "decode_error", errors.New("upload response has no fileUrl"))
	}
	// the transport may omit fields it did not compute
	if uploaded.FileName == "" {
		uploaded.FileName = file.FileName
	}
	if uploaded.FileSize == 0 {
		uploaded.FileSize = file.SizeBytes
	}
	if uploaded.MimeType == "" {
		uploaded.MimeType = file.MimeType
	}
	if uploaded.Width == nil && uploaded.Height == nil && file.ImageDimensions != nil {
		w, h := file.ImageDimensions.Width, file.ImageDimensions.Height
		uploaded.Width, uploaded.Height = &w, &h
	}
	return &uploaded, nil
}

// Download copies a stored file into w. Relative URLs resolve against the API
// base; the bearer token is only sent to the API host.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	target, err := c.resolve(fileURL)
	if err != nil {
		return 0, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, apierr.New(0, "rate_limited", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("build download request: %w", err)
	}
	if strings.EqualFold(target.Host, c.base.Host) {
		c.authorize(req)
	} else {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return 0, apierr.New(0, apierr.CodeTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, parseError(resp.StatusCode, raw)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", target.Path, err)
	}
	c.log.Debug("downloaded file", "path", target.Path, "bytes", n)
	return n, nil
}

func (c *Client) resolve(fileURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(fileURL))
	if err != nil {
		return nil, fmt.Errorf("invalid file url %q: %w", fileURL, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	return c.base.ResolveReference(u), nil
}
