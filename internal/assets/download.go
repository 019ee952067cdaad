package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// LockFile records the checksum of every downloaded file.
const LockFile = "download-manifest.lock.json"

const defaultBaseURL = "https://huggingface.co"

type Options struct {
	OutDir  string
	HFToken string
	// BaseURL replaces https://huggingface.co for repo files.
	BaseURL string
	// Parallel bounds concurrent downloads; values below 1 mean 2.
	Parallel int
	Client   *http.Client
	Stdout   io.Writer
}

type ErrAccessDenied struct {
	Repo string
}

func (e *ErrAccessDenied) Error() string {
	return fmt.Sprintf("access denied for %s; provide HF_TOKEN or --hf-token", e.Repo)
}

type lockManifest struct {
	Repo      string                `json:"repo"`
	Generated string                `json:"generated"`
	Files     map[string]lockRecord `json:"files"`
}

type lockRecord struct {
	Revision string `json:"revision,omitempty"`
	SHA256   string `json:"sha256"`
}

var shaHexPattern = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

type fetcher struct {
	opts Options
	repo string

	mu   sync.Mutex
	lock lockManifest
	out  io.Writer
}

// Download fetches every file in m into opts.OutDir. Files already on disk
// with a matching checksum are skipped.
func Download(ctx context.Context, m Manifest, opts Options) error {
	if opts.OutDir == "" {
		return errors.New("out dir is required")
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Parallel < 1 {
		opts.Parallel = 2
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	lockPath := filepath.Join(opts.OutDir, LockFile)
	f := &fetcher{
		opts: opts,
		repo: m.Repo,
		lock: readLockManifest(lockPath),
		out:  opts.Stdout,
	}
	f.lock.Repo = m.Repo

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)
	for _, file := range m.Files {
		g.Go(func() error { return f.fetch(ctx, file) })
	}
	err := g.Wait()

	// Keep what was verified even when another file failed.
	f.lock.Generated = time.Now().UTC().Format(time.RFC3339)
	if werr := writeLockManifest(lockPath, f.lock); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return err
	}
	f.printf("wrote lock manifest: %s\n", lockPath)
	return nil
}

func (f *fetcher) printf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.out, format, args...)
}

func (f *fetcher) recorded(file File) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lr, ok := f.lock.Files[file.Path]
	if !ok || lr.Revision != file.Revision || !isSHA256Hex(lr.SHA256) {
		return "", false
	}
	return strings.ToLower(lr.SHA256), true
}

func (f *fetcher) record(file File, sum string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lock.Files[file.Path] = lockRecord{Revision: file.Revision, SHA256: sum}
}

func (f *fetcher) url(file File) string {
	if file.URL != "" {
		return file.URL
	}
	return fmt.Sprintf("%s/%s/resolve/%s/%s", strings.TrimRight(f.opts.BaseURL, "/"), f.repo, file.Revision, file.Path)
}

func (f *fetcher) fetch(ctx context.Context, file File) error {
	expected := strings.ToLower(file.SHA256)
	if expected == "" {
		if sum, ok := f.recorded(file); ok {
			expected = sum
		} else {
			sum, err := f.checksumFromMetadata(ctx, file)
			if err != nil {
				return err
			}
			expected = sum
		}
	}

	localPath := filepath.Join(f.opts.OutDir, filepath.FromSlash(file.Path))
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local subdir: %w", err)
	}

	if expected != "" {
		ok, err := existingMatches(localPath, expected)
		if err != nil {
			return err
		}
		if ok {
			f.printf("skip %s (checksum match)\n", file.Path)
			f.record(file, expected)
			return nil
		}
	}

	f.printf("download %s -> %s\n", file.Path, localPath)
	actual, size, err := f.download(ctx, file, localPath)
	if err != nil {
		return err
	}
	if expected == "" {
		slog.Warn("no published checksum, recording downloaded file", "file", file.Path, "sha256", actual)
	} else if actual != expected {
		_ = os.Remove(localPath)
		return fmt.Errorf("checksum mismatch for %s: expected %s got %s", file.Path, expected, actual)
	}
	f.printf("verified %s (%s, sha256=%s)\n", file.Path, humanize.Bytes(uint64(size)), actual)
	f.record(file, actual)
	return nil
}

func (f *fetcher) newRequest(ctx context.Context, method string, file File) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, f.url(file), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.opts.HFToken != "" && file.URL == "" {
		req.Header.Set("Authorization", "Bearer "+f.opts.HFToken)
	}
	return req, nil
}

func (f *fetcher) download(ctx context.Context, file File, outPath string) (string, int64, error) {
	req, err := f.newRequest(ctx, http.MethodGet, file)
	if err != nil {
		return "", 0, err
	}

	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", 0, &ErrAccessDenied{Repo: f.repo}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", 0, fmt.Errorf("download failed for %s: %s", file.Path, resp.Status)
	}

	tmp := outPath + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}

	h := sha256.New()
	pw := &progressWriter{f: f, name: file.Path, total: resp.ContentLength, last: time.Now()}
	written, err := io.Copy(io.MultiWriter(fh, h, pw), resp.Body)
	if err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return "", 0, fmt.Errorf("download %s: %w", file.Path, err)
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return "", 0, fmt.Errorf("move temp file into place: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), written, nil
}

// checksumFromMetadata asks the server for the file's sha256. LFS files carry
// it in their ETag; small git files and plain URLs do not, and return "".
func (f *fetcher) checksumFromMetadata(ctx context.Context, file File) (string, error) {
	req, err := f.newRequest(ctx, http.MethodHead, file)
	if err != nil {
		return "", err
	}

	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("metadata request failed for %s: %w", file.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &ErrAccessDenied{Repo: f.repo}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 399 {
		return "", fmt.Errorf("metadata request failed for %s: %s", file.Path, resp.Status)
	}

	for _, key := range []string{"X-Linked-Etag", "Etag"} {
		if v := normalizeETag(resp.Header.Get(key)); isSHA256Hex(v) {
			return strings.ToLower(v), nil
		}
	}
	return "", nil
}

type progressWriter struct {
	f       *fetcher
	name    string
	total   int64
	written int64
	last    time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if time.Since(p.last) > 700*time.Millisecond {
		if p.total > 0 {
			p.f.printf("  %s: %.1f%% (%s/%s)\n", p.name, float64(p.written)*100/float64(p.total),
				humanize.Bytes(uint64(p.written)), humanize.Bytes(uint64(p.total)))
		} else {
			p.f.printf("  %s: %s\n", p.name, humanize.Bytes(uint64(p.written)))
		}
		p.last = time.Now()
	}
	return len(b), nil
}

func existingMatches(path, expected string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat existing file: %w", err)
	}
	if fi.IsDir() {
		return false, fmt.Errorf("expected file at %s, found directory", path)
	}
	actual, err := fileSHA256(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

func normalizeETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, "\"")
}

func isSHA256Hex(v string) bool {
	return shaHexPattern.MatchString(v)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file for checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func readLockManifest(path string) lockManifest {
	out := lockManifest{Files: map[string]lockRecord{}}
	b, err := os.ReadFile(path)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return lockManifest{Files: map[string]lockRecord{}}
	}
	if out.Files == nil {
		out.Files = map[string]lockRecord{}
	}
	return out
}

func writeLockManifest(path string, lock lockManifest) error {
	b, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lock manifest: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write lock manifest: %w", err)
	}
	return nil
}
