// Package progress reports how far an image download has come.
package progress

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DefaultExpected is the collection size.
const DefaultExpected = 82

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// Report is one scan of the image directory.
type Report struct {
	Dir      string
	Count    int
	Expected int
	Bytes    int64
	Running  bool
	Recent   []string // newest first, at most 5
	Missing  bool     // directory does not exist yet
}

// Percent returns the completion in [0, 1].
func (r Report) Percent() float64 {
	if r.Expected <= 0 {
		return 0
	}
	return min(float64(r.Count)/float64(r.Expected), 1)
}

// Complete reports whether every expected image is present.
func (r Report) Complete() bool {
	return r.Expected > 0 && r.Count >= r.Expected
}

// Scan counts image files in dir. A missing directory is not an error.
func Scan(dir string, expected int) (Report, error) {
	r := Report{Dir: dir, Expected: expected}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		r.Missing = true
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("scan %s: %w", dir, err)
	}

	type file struct {
		name string
		mod  time.Time
	}
	var files []file
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(imageExts, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		r.Count++
		r.Bytes += info.Size()
		files = append(files, file{e.Name(), info.ModTime()})
	}
	slices.SortFunc(files, func(a, b file) int { return b.mod.Compare(a.mod) })
	for _, f := range files[:min(len(files), 5)] {
		r.Recent = append(r.Recent, f.name)
	}
	return r, nil
}

// Lookup reports whether a downloader process is running. It is swapped in
// tests.
var Lookup = DownloaderRunning

// DownloaderRunning looks for a running fetch command with pgrep. Any
// failure, including pgrep being unavailable, reads as not running.
func DownloaderRunning(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "pgrep", "-f", "memewall fetch|download_nft_images")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return false
	}
	self := fmt.Sprint(os.Getpid())
	for _, pid := range strings.Fields(out.String()) {
		if pid != self {
			return true
		}
	}
	return false
}

// Check scans dir and looks for a downloader.
func Check(ctx context.Context, dir string, expected int) (Report, error) {
	r, err := Scan(dir, expected)
	if err != nil {
		return r, err
	}
	r.Running = Lookup(ctx)
	return r, nil
}

var (
	primary = lipgloss.Color("#7C3AED")
	success = lipgloss.Color("#10B981")
	muted   = lipgloss.Color("#6B7280")
	warning = lipgloss.Color("#F59E0B")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(12)
	valueStyle = lipgloss.NewStyle().Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(success).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(warning)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 2)
)

// Render formats the report for the terminal.
func Render(r Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("NFT image download"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Directory", r.Dir)
	row("Images", fmt.Sprintf("%d / %d (%.0f%%)", r.Count, r.Expected, r.Percent()*100))
	row("Size", humanBytes(r.Bytes))

	switch {
	case r.Missing:
		b.WriteString(warnStyle.Render("Directory not created yet; has the download started?"))
	case r.Complete():
		b.WriteString(doneStyle.Render("Download complete"))
	case r.Running:
		b.WriteString(valueStyle.Render("Downloader is running"))
	default:
		b.WriteString(warnStyle.Render("Downloader is not running; rerun fetch to resume"))
	}
	if len(r.Recent) > 0 {
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Latest"))
		b.WriteString("\n")
		for _, name := range r.Recent {
			b.WriteString("  " + name + "\n")
		}
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
