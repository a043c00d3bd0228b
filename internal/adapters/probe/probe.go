package probe

import (
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// decoders registered for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

// extension types the platform's mime table often lacks
var fallbackTypes = map[string]string{
	".pdf":  "application/pdf",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".key":  "application/vnd.apple.keynote",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".heic": "image/heic",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Inspector describes local files without uploading them
type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect reads a file's size, MIME type and, for raster images, pixel size
func (i *Inspector) Inspect(path string) (domain.FileCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileCandidate{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.FileCandidate{}, fmt.Errorf("%s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.FileCandidate{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return domain.FileCandidate{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	candidate := domain.FileCandidate{
		FileName:  filepath.Base(path),
		SizeBytes: info.Size(),
		MimeType:  DetectMimeType(path, head[:n]),
		Path:      path,
	}

	if candidate.IsImage() {
		if _, err := f.Seek(0, io.SeekStart); err == nil {
			if cfg, _, err := image.DecodeConfig(f); err == nil {
				candidate.ImageDimensions = &domain.Dimensions{Width: cfg.Width, Height: cfg.Height}
			}
		}
	}

	return candidate, nil
}

// DetectMimeType prefers the extension and falls back to sniffing the first
// bytes, the same way browsers fill in a File's type.
func DetectMimeType(name string, head []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := fallbackTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
		return t
	}
	if len(head) == 0 {
		return "application/octet-stream"
	}
	sniffed := http.DetectContentType(head)
	if mt, _, err := mime.ParseMediaType(sniffed); err == nil {
		return mt
	}
	return sniffed
}
