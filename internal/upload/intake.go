package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"inkpost/internal/storage"
)

// ErrUnsupportedFileType is returned when an upload's extension is not
// in the allow-list.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// DefaultAllowedExtensions is the image allow-list.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}

// Intake validates incoming uploads and hands the bytes to a Store.
type Intake struct {
	store   storage.Store
	allowed map[string]struct{}
}

func NewIntake(store storage.Store, allowedExtensions []string) *Intake {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &Intake{store: store, allowed: allowed}
}

// Accept persists an optional uploaded file and returns its storage
// reference. A nil header means no file was attached and yields an empty
// reference without error. Files whose extension (case-insensitive, last
// dot-segment) is outside the allow-list are rejected with
// ErrUnsupportedFileType.
func (i *Intake) Accept(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}

	name := sanitizeName(fh.Filename)
	if !i.extensionAllowed(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, fh.Filename)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	// Short uuid prefix so two uploads of cat.png never clobber each other.
	name = uuid.NewString()[:8] + "-" + name

	ref, err := i.store.Save(ctx, name, f)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return ref, nil
}

func (i *Intake) extensionAllowed(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return false
	}
	_, ok := i.allowed[strings.ToLower(name[dot+1:])]
	return ok
}

// sanitizeName strips directory components (both separator styles) and
// every byte outside [A-Za-z0-9._-], defeating path traversal in
// client-supplied filenames.
func sanitizeName(filename string) string {
	if idx := strings.LastIndexAny(filename, `/\`); idx >= 0 {
		filename = filename[idx+1:]
	}

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "upload"
	}
	return name
}
