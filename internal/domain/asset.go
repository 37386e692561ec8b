package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MediaKind tells image assets from video assets.
type MediaKind int

const (
	MediaImage MediaKind = iota + 1
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "unknown"
	}
}

var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png"}
	VideoExtensions = []string{".mp4", ".mov"}
)

// KindForPath maps a file extension to its media kind.
func KindForPath(path string) (MediaKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExtensions {
		if ext == e {
			return MediaImage, nil
		}
	}
	for _, e := range VideoExtensions {
		if ext == e {
			return MediaVideo, nil
		}
	}
	return 0, &Error{
		Kind: KindUnsupportedFormat,
		Op:   "detect media kind",
		Err:  fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext),
	}
}

// Asset is a publishable media file under one of the asset directories.
type Asset struct {
	Path       string // slash separated, relative to the project root
	Kind       MediaKind
	AbsPath    string
	LastPosted *time.Time
}

type formatError struct {
	kind MediaKind
	ext  string
}

func (e formatError) Error() string {
	return fmt.Sprintf("unsupported %s format: %s", e.kind, e.ext)
}

func (e formatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// UnsupportedFormat reports a file whose extension is not accepted for kind,
// such as "unsupported image format: .xyz".
func UnsupportedFormat(op string, kind MediaKind, path string) *Error {
	return &Error{
		Kind: KindUnsupportedFormat,
		Op:   op,
		Err:  formatError{kind: kind, ext: strings.ToLower(filepath.Ext(path))},
	}
}
