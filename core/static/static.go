package static

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
)

// DotfilesPolicy controls how paths containing a leading-dot segment are served.
type DotfilesPolicy string

const (
	// DotfilesIgnore passes through as if the file didn't exist (default).
	DotfilesIgnore DotfilesPolicy = "ignore"
	// DotfilesDeny responds with 403 Forbidden.
	DotfilesDeny DotfilesPolicy = "deny"
	// DotfilesAllow serves dotfiles like any other file.
	DotfilesAllow DotfilesPolicy = "allow"
)

// DefaultMaxRangeBytes bounds the size of a single served byte range.
const DefaultMaxRangeBytes int64 = 32 << 20 // 32 MB

// Config configures the static file middleware.
type Config struct {
	// Root is the filesystem directory files are served from. Required;
	// the middleware panics at startup when it doesn't exist.
	Root string `env:"STATIC_ROOT"`

	// Index is the file name tried for directory requests (default "index.html").
	Index string `env:"STATIC_INDEX" envDefault:"index.html"`

	// Dotfiles selects the policy for leading-dot path segments (default ignore).
	Dotfiles DotfilesPolicy `env:"STATIC_DOTFILES" envDefault:"ignore"`

	// MaxAge sets Cache-Control max-age for full responses. Zero omits the header.
	MaxAge time.Duration `env:"STATIC_MAX_AGE"`

	// Immutable appends the immutable directive to Cache-Control.
	Immutable bool `env:"STATIC_IMMUTABLE"`

	// DisableETag turns off content fingerprinting and conditional GET.
	DisableETag bool `env:"STATIC_DISABLE_ETAG"`

	// MaxRangeBytes caps the span a single Range request may ask for
	// (default 32 MB). Larger spans are treated as unsatisfiable.
	MaxRangeBytes int64 `env:"STATIC_MAX_RANGE_BYTES"`
}

// Serve creates a middleware that resolves GET and HEAD requests against a
// filesystem root. Anything it cannot serve, including traversal attempts and
// missing files, passes through to the next handler so later routes can claim
// the path. Panics at startup when the root directory is missing.
func Serve[C handler.Context](cfg Config) handler.Middleware[C] {
	root, err := filepath.Abs(filepath.Clean(cfg.Root))
	if err != nil {
		panic("static: cannot resolve root: " + err.Error())
	}
	info, err := os.Stat(root)
	if err != nil {
		panic("static: root directory is not accessible: " + err.Error())
	}
	if !info.IsDir() {
		panic("static: root is not a directory: " + root)
	}

	if cfg.Index == "" {
		cfg.Index = "index.html"
	}
	if cfg.Dotfiles == "" {
		cfg.Dotfiles = DotfilesIgnore
	}
	if cfg.MaxRangeBytes <= 0 {
		cfg.MaxRangeBytes = DefaultMaxRangeBytes
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			r := ctx.Request()
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				return next(ctx)
			}

			reqPath := path.Clean("/" + r.URL.Path)

			if seg := dotfileSegment(reqPath); seg {
				switch cfg.Dotfiles {
				case DotfilesDeny:
					return response.Error(response.ErrForbidden)
				case DotfilesAllow:
					// fall through and serve
				default:
					return next(ctx)
				}
			}

			full := filepath.Join(root, filepath.FromSlash(reqPath))
			if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
				// resolved outside the root: traversal attempt
				return next(ctx)
			}

			info, err := os.Stat(full)
			if err != nil {
				return next(ctx)
			}
			if info.IsDir() {
				full = filepath.Join(full, cfg.Index)
				info, err = os.Stat(full)
				if err != nil || info.IsDir() {
					return next(ctx)
				}
			}

			return serveFile(cfg, full, info)
		}
	}
}

// dotfileSegment reports whether any path segment starts with a dot.
func dotfileSegment(reqPath string) bool {
	for _, seg := range strings.Split(reqPath, "/") {
		if len(seg) > 1 && seg[0] == '.' {
			return true
		}
	}
	return false
}

func serveFile(cfg Config, fullPath string, info os.FileInfo) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return err
		}
		size := int64(len(data))

		w.Header().Set("Content-Type", contentType(fullPath))
		w.Header().Set("Accept-Ranges", "bytes")

		if !cfg.DisableETag {
			sum := sha256.Sum256(data)
			etag := `"` + hex.EncodeToString(sum[:]) + `"`
			w.Header().Set("ETag", etag)

			if r.Header.Get("If-None-Match") == etag {
				w.WriteHeader(http.StatusNotModified)
				return nil
			}
		}

		if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
			start, end, ok := parseRange(rangeHeader, size, cfg.MaxRangeBytes)
			if !ok {
				w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
				w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
				return nil
			}

			w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
			w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
			w.WriteHeader(http.StatusPartialContent)
			if r.Method == http.MethodHead {
				return nil
			}
			_, err = w.Write(data[start : end+1])
			return err
		}

		if cc := cacheControl(cfg); cc != "" {
			w.Header().Set("Cache-Control", cc)
		}
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return nil
		}
		_, err = w.Write(data)
		return err
	}
}

func cacheControl(cfg Config) string {
	if cfg.MaxAge <= 0 {
		return ""
	}
	cc := "max-age=" + strconv.Itoa(int(cfg.MaxAge.Seconds()))
	if cfg.Immutable {
		cc += ", immutable"
	}
	return cc
}

// parseRange parses a single `bytes=start-end` range. The end defaults to
// size-1 when omitted. Multi-range requests, non-numeric or negative bounds,
// inverted or out-of-bounds ranges, and spans above maxSpan are unsatisfiable.
func parseRange(header string, size, maxSpan int64) (start, end int64, ok bool) {
	spec, found := strings.CutPrefix(header, "bytes=")
	if !found || strings.Contains(spec, ",") {
		return 0, 0, false
	}

	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}

	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, false
	}

	if strings.TrimSpace(endStr) == "" {
		end = size - 1
	} else {
		end, err = strconv.ParseInt(strings.TrimSpace(endStr), 10, 64)
		if err != nil || end < 0 {
			return 0, 0, false
		}
	}

	if start > end || start >= size || end >= size {
		return 0, 0, false
	}
	if end-start+1 > maxSpan {
		return 0, 0, false
	}

	return start, end, true
}
