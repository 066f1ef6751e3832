// Package fetch downloads the collection images listed in a collection
// export, one file per item.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoItems is returned when a collection lists nothing to download.
var ErrNoItems = errors.New("collection has no items")

// ErrUnsafeName is returned for a file name that would land outside the
// download folder.
var ErrUnsafeName = errors.New("unsafe file name")

// Namer picks the file name for the n-th downloadable item (1-based,
// counting only items with a mint and an image URL).
type Namer func(n int, it Item) string

// MintName names files <mint><ext>.
func MintName(_ int, it Item) string {
	return it.ID + Extension(it.Content.Links.Image)
}

// PoolName names files prefix00001ext, prefix00002ext, ... the way the
// wall's image pool expects them. The image decoder sniffs the format, so
// the extension need not match the downloaded bytes.
func PoolName(prefix, ext string) Namer {
	return func(n int, _ Item) string {
		return fmt.Sprintf("%s%05d%s", prefix, n, ext)
	}
}

// safeName rejects names with separators or that escape the folder.
func safeName(name string) error {
	if name == "" || !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return nil
}

// Item is one NFT in the collection export.
type Item struct {
	ID      string `json:"id"`
	Content struct {
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"content"`
}

// Name returns the display name, or "Unknown".
func (it Item) Name() string {
	if it.Content.Metadata.Name == "" {
		return "Unknown"
	}
	return it.Content.Metadata.Name
}

// Collection is the subset of the export the downloader reads.
type Collection struct {
	Result struct {
		Items []Item `json:"items"`
	} `json:"result"`
}

// LoadCollection parses a collection export file.
func LoadCollection(file string) (*Collection, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse collection %s: %w", file, err)
	}
	if len(c.Result.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", file, ErrNoItems)
	}
	return &c, nil
}

// Extension picks the file extension for an image URL: an explicit ?ext=
// query wins, then the path's extension, then ".png".
func Extension(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := u.Query().Get("ext"); ext != "" {
			return "." + strings.TrimPrefix(ext, ".")
		}
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}
	return ".png"
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Options tunes a download run. Zero values pick the defaults.
type Options struct {
	Dir      string
	Attempts int           // per image, default 3
	Backoff  time.Duration // between attempts, default 2s
	Delay    time.Duration // between images, default 500ms
	Timeout  time.Duration // per request, default 30s
	Name     Namer         // default MintName
	Client   *http.Client
	Log      io.Writer
}

func (o *Options) defaults() {
	if o.Dir == "" {
		o.Dir = "nft_images"
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.Backoff == 0 {
		o.Backoff = 2 * time.Second
	}
	if o.Delay == 0 {
		o.Delay = 500 * time.Millisecond
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Name == nil {
		o.Name = MintName
	}
	if o.Client == nil {
		o.Client = &http.Client{Timeout: o.Timeout}
	}
	if o.Log == nil {
		o.Log = io.Discard
	}
}

// Summary counts the outcome of a run. Existing files count as successful;
// items without a mint, without an image URL or with an unsafe name are
// skipped.
type Summary struct {
	Successful int
	Failed     int
	Skipped    int
	Total      int
}

// Download fetches every item into opts.Dir, named by opts.Name. Items
// missing a mint or URL are skipped, and files already on disk are kept. A cancelled context stops the
// run and returns the partial summary with ctx.Err().
func Download(ctx context.Context, items []Item, opts Options) (Summary, error) {
	opts.defaults()
	sum := Summary{Total: len(items)}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return sum, fmt.Errorf("create %s: %w", opts.Dir, err)
	}
	logf := func(format string, args ...any) {
		_, _ = fmt.Fprintf(opts.Log, format+"\n", args...)
	}

	n := 0
	for i, it := range items {
		logf("[%d/%d] %s", i+1, len(items), it.Name())
		imageURL := it.Content.Links.Image
		if it.ID == "" || imageURL == "" {
			logf("  missing mint address or image URL, skipping")
			sum.Skipped++
			continue
		}
		n++

		name := opts.Name(n, it)
		if err := safeName(name); err != nil {
			logf("  %v, skipping", err)
			sum.Skipped++
			continue
		}
		dst := filepath.Join(opts.Dir, name)
		if fi, err := os.Stat(dst); err == nil {
			logf("  already exists: %s (%d bytes)", name, fi.Size())
			sum.Successful++
			continue
		}

		n, err := fetchWithRetry(ctx, opts, imageURL, dst)
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		if err != nil {
			logf("  failed after %d attempts: %v", opts.Attempts, err)
			sum.Failed++
		} else {
			logf("  downloaded %s (%d bytes)", name, n)
			sum.Successful++
		}

		if i < len(items)-1 {
			if err := sleep(ctx, opts.Delay); err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

func fetchWithRetry(ctx context.Context, opts Options, rawURL, dst string) (int64, error) {
	var err error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		var n int64
		n, err = fetchOne(ctx, opts.Client, rawURL, dst)
		if err == nil {
			return n, nil
		}
		_, _ = fmt.Fprintf(opts.Log, "  attempt %d failed: %v\n", attempt, err)
		if attempt < opts.Attempts {
			if serr := sleep(ctx, opts.Backoff); serr != nil {
				return 0, serr
			}
		}
	}
	return 0, err
}

// fetchOne writes through a temp file so an interrupted download never
// leaves a partial image that a later run would skip.
func fetchOne(ctx context.Context, client *http.Client, rawURL, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".fetch-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
