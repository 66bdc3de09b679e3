// Package images turns user-supplied pictures into the opaque image
// references stored on orders.
//
// A reference has exactly three legal shapes: absent (""), a small
// self-contained payload (a data URL), or an external locator (a URL or
// object-store address). Nothing outside this package interprets a
// reference beyond "present or absent".
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Kind classifies an image reference.
type Kind int

const (
	KindAbsent Kind = iota
	KindPayload
	KindLocator
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindPayload:
		return "payload"
	case KindLocator:
		return "locator"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DefaultMaxInlineBytes bounds an inline payload reference.
const DefaultMaxInlineBytes = 45000

// ErrTooLarge is returned when an image does not fit inline and no
// uploader is configured.
var ErrTooLarge = errors.New("image too large to inline and no uploader configured")

// Classify reports the shape of ref.
func Classify(ref string) Kind {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return KindAbsent
	case strings.HasPrefix(ref, "data:"):
		return KindPayload
	default:
		return KindLocator
	}
}

// Uploader stores image bytes somewhere addressable and returns a locator.
type Uploader interface {
	Upload(ctx context.Context, contentType string, data []byte) (string, error)
}

// Resolver turns a file path, URL or data URL into a reference.
type Resolver struct {
	// MaxInline is the largest data URL kept inline. Zero means
	// DefaultMaxInlineBytes.
	MaxInline int
	// Uploader receives images over MaxInline. May be nil.
	Uploader Uploader
}

func (r *Resolver) maxInline() int {
	if r.MaxInline > 0 {
		return r.MaxInline
	}
	return DefaultMaxInlineBytes
}

// Resolve converts src into a reference:
//   - "" stays absent.
//   - http(s) URLs and s3:// addresses are already locators and pass through.
//   - data URLs stay inline when small enough, else are uploaded.
//   - anything else is read as a local file, then handled like a data URL.
func (r *Resolver) Resolve(ctx context.Context, src string) (string, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return "", nil
	case isLocator(src):
		return src, nil
	case strings.HasPrefix(src, "data:"):
		if len(src) <= r.maxInline() {
			return src, nil
		}
		contentType, data, err := DecodeDataURL(src)
		if err != nil {
			return "", err
		}
		return r.upload(ctx, contentType, data)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("read image %s: not an image (%s)", src, contentType)
	}

	if ref := EncodeDataURL(contentType, data); len(ref) <= r.maxInline() {
		return ref, nil
	}
	return r.upload(ctx, contentType, data)
}

func (r *Resolver) upload(ctx context.Context, contentType string, data []byte) (string, error) {
	if r.Uploader == nil {
		return "", ErrTooLarge
	}
	loc, err := r.Uploader.Upload(ctx, contentType, data)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return loc, nil
}

func isLocator(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "s3://")
}

// EncodeDataURL builds a base64 data URL.
func EncodeDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 data URL into its content type and bytes.
func DecodeDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data URL is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URL payload: %w", err)
	}
	return contentType, data, nil
}
