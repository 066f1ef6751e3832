package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phanxgames/memewall"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://arweave.net/abc?ext=gif", ".gif"},
		{"https://arweave.net/abc?foo=1&ext=jpeg", ".jpeg"},
		{"https://cdn.example/img/42.webp", ".webp"},
		{"https://cdn.example/img/42", ".png"},
		{"::not a url", ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Extension(tt.url); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestLoadCollection(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "collection.json")
	os.WriteFile(good, []byte(`{"result":{"items":[
		{"id":"Mint1","content":{"links":{"image":"https://x/1.png"},"metadata":{"name":"Meme #1"}}},
		{"id":"Mint2","content":{"links":{"image":""}}}
	]}}`), 0o644)
	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`{"result":{"items":[]}}`), 0o644)

	c, err := LoadCollection(good)
	if err != nil {
		t.Fatal(err)
	}
	items := c.Result.Items
	if len(items) != 2 || items[0].ID != "Mint1" || items[0].Name() != "Meme #1" || items[1].Name() != "Unknown" {
		t.Errorf("items = %+v", items)
	}

	if _, err := LoadCollection(empty); !errors.Is(err, ErrNoItems) {
		t.Errorf("empty collection err = %v", err)
	}
	if _, err := LoadCollection(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func item(id, url string) Item {
	var it Item
	it.ID = id
	it.Content.Links.Image = url
	return it
}

func fastOptions(dir string) Options {
	return Options{Dir: dir, Backoff: time.Millisecond, Delay: time.Millisecond}
}

func TestDownload(t *testing.T) {
	var flaky atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request without User-Agent")
		}
		switch r.URL.Path {
		case "/ok.png":
			w.Write([]byte("pngdata"))
		case "/flaky":
			if flaky.Add(1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte("gifdata"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "Existing.png"), []byte("old"), 0o644)

	items := []Item{
		item("A", srv.URL+"/ok.png"),
		item("B", srv.URL+"/flaky?ext=gif"),
		item("C", srv.URL+"/gone.png"),
		item("", srv.URL+"/ok.png"),
		item("Existing", srv.URL+"/ok.png"),
	}
	sum, err := Download(context.Background(), items, fastOptions(dir))
	if err != nil {
		t.Fatal(err)
	}
	want := Summary{Successful: 3, Failed: 1, Skipped: 1, Total: 5}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}

	if data, _ := os.ReadFile(filepath.Join(dir, "A.png")); string(data) != "pngdata" {
		t.Errorf("A.png = %q", data)
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "B.gif")); string(data) != "gifdata" {
		t.Errorf("B.gif = %q", data)
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "Existing.png")); string(data) != "old" {
		t.Error("existing file overwritten")
	}
	if _, err := os.Stat(filepath.Join(dir, "C.png")); !os.IsNotExist(err) {
		t.Error("failed download left a file behind")
	}
	if n := flaky.Load(); n != 3 {
		t.Errorf("flaky endpoint hit %d times, want 3", n)
	}
}

func TestDownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := fastOptions(t.TempDir())
	sum, err := Download(ctx, []Item{item("A", srv.URL+"/a.png"), item("B", srv.URL+"/b.png")}, opts)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if sum.Successful != 0 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestDownloadPoolNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	dir := t.TempDir()
	items := []Item{
		item("A", srv.URL+"/a.jpeg"),
		item("", srv.URL+"/skipped.png"),
		item("B", srv.URL+"/b?ext=gif"),
		item("C", srv.URL+"/c.webp"),
	}
	opts := fastOptions(dir)
	opts.Name = PoolName("image", ".png")
	sum, err := Download(context.Background(), items, opts)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Successful != 3 || sum.Skipped != 1 {
		t.Errorf("summary = %+v", sum)
	}

	for _, name := range memewall.NewImagePool("image", ".png", 3).Names() {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("pool image %s not downloaded: %v", name, err)
		}
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "image00002.png")); string(data) != "/b" {
		t.Errorf("image00002.png = %q, want the second downloadable item", data)
	}
}

func TestDownloadRejectsUnsafeNames(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	root := t.TempDir()
	dir := filepath.Join(root, "images")
	items := []Item{
		item("../escaped", srv.URL+"/a.png"),
		item("/abs", srv.URL+"/b.png"),
		item("Mint", srv.URL+"/c?ext=x/../../y"),
		item(`back\slash`, srv.URL+"/d.png"),
	}
	sum, err := Download(context.Background(), items, fastOptions(dir))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Skipped != len(items) || sum.Successful != 0 {
		t.Errorf("summary = %+v, want every item skipped", sum)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hit %d times", n)
	}
	if _, err := os.Stat(filepath.Join(root, "escaped.png")); !os.IsNotExist(err) {
		t.Error("file written outside the download folder")
	}
}

func TestSafeName(t *testing.T) {
	for _, name := range []string{"", "..", "../x.png", "/x.png", "a/b.png", `a\b.png`} {
		if err := safeName(name); !errors.Is(err, ErrUnsafeName) {
			t.Errorf("safeName(%q) = %v, want ErrUnsafeName", name, err)
		}
	}
	for _, name := range []string{"Mint.png", "image00001.png", "x.y.gif"} {
		if err := safeName(name); err != nil {
			t.Errorf("safeName(%q) = %v", name, err)
		}
	}
}
