// Package fetch implements spawn's repository-list HTTP fetcher: a
// browser-style client with a bounded timeout that tries each configured
// Maven repository in order and writes the first 200 response through
// to the local cache.
package fetch

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/solarmoff-afk/spawn/internal/cache"
	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/logging"
	"github.com/solarmoff-afk/spawn/internal/metadata"
	"github.com/solarmoff-afk/spawn/internal/model"
)

const userAgent = "spawn/1.0 (+https://github.com/solarmoff-afk/spawn) Mozilla/5.0"

// DefaultRepositories is the built-in repository list, prepended ahead of
// any user-supplied repositories.
var DefaultRepositories = []string{
	"https://dl.google.com/dl/android/maven2/",
	"https://dl.google.com/android/maven2/",
	"https://repo1.maven.org/maven2/",
	"https://repo.huaweicloud.com/repository/maven/",
}

// Fetcher retrieves artifacts and metadata into a local Cache by trying a
// mutable, ordered repository list.
type Fetcher struct {
	client       *http.Client
	cache        *cache.Cache
	log          *logging.Reporter
	diag         *slog.Logger
	repositories []string
}

// New builds a Fetcher. repositories should already include
// DefaultRepositories (typically via NormalizeRepositories) followed by
// user-declared ones; repositories discovered in POMs during resolution
// are appended later via AddRepository.
func New(c *cache.Cache, log *logging.Reporter, repositories []string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil // follow redirects, the default Go behavior up to 10 hops
			},
		},
		cache:        c,
		log:          log,
		diag:         slog.Default(),
		repositories: append([]string{}, repositories...),
	}
}

// WithDiagnostic overrides the structured diagnostic logger, used by
// callers that configured one from --log-level/--log-format.
func (f *Fetcher) WithDiagnostic(diag *slog.Logger) *Fetcher {
	f.diag = diag
	return f
}

// NormalizeRepositories suffix-normalizes every URL to end with "/" and
// de-duplicates, with defaults prepended ahead of user-supplied ones.
// A repository URL is stored exactly once.
func NormalizeRepositories(userSupplied []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(u string) {
		u = normalizeURL(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}
	for _, u := range DefaultRepositories {
		add(u)
	}
	for _, u := range userSupplied {
		add(u)
	}
	return out
}

func normalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// Repositories returns the fetcher's current repository list.
func (f *Fetcher) Repositories() []string {
	return append([]string{}, f.repositories...)
}

// AddRepository appends a newly discovered repository URL if not already
// present, normalizing its trailing slash. Called only from the
// coordinator goroutine during resolution: download workers must only
// read Repositories() after resolution completes.
func (f *Fetcher) AddRepository(u string) {
	u = normalizeURL(u)
	if u == "" {
		return
	}
	for _, existing := range f.repositories {
		if existing == u {
			return
		}
	}
	f.repositories = append(f.repositories, u)
}

// FetchPom fetches an artifact's POM and returns its raw bytes, fetching
// through the cache the way Fetch does but returning content directly
// since the POM/effective-POM builder needs to parse it immediately.
func (f *Fetcher) FetchPom(a model.Artifact) ([]byte, error) {
	relPath, err := f.Fetch(a, "pom")
	if err != nil {
		return nil, err
	}
	return f.cache.Read(relPath)
}

// Fetch resolves an artifact coordinate and extension against the
// repository list, caching the first successful response, and returns
// the cache-relative path of the artifact file.
func (f *Fetcher) Fetch(a model.Artifact, ext string) (string, error) {
	relPath := a.RelativePath(ext)

	if a.IsSnapshot() {
		redirected, err := f.resolveSnapshotPath(a, ext)
		if err != nil {
			return "", err
		}
		relPath = redirected
	}

	if f.cache.Exists(relPath) {
		return relPath, nil
	}

	for _, repo := range f.repositories {
		f.diag.Debug("fetch attempt", "url", repo+relPath)
		body, ok := f.get(repo + relPath)
		if !ok {
			f.diag.Debug("fetch miss", "url", repo+relPath)
			continue
		}
		if err := f.cache.WriteAtomic(relPath, body); err != nil {
			return "", errs.Wrap(errs.CacheIO, "writing "+relPath, err)
		}
		return relPath, nil
	}

	return "", errs.New(errs.ArtifactNotFound, relPath)
}

// FetchMetadata fetches a maven-metadata.xml document (per-version or
// GA-level, depending on relPath), applying a corruption check: an
// existing file under 256 bytes is deleted and re-fetched, and a blank
// response body causes that repository to be skipped in favor of the
// next.
func (f *Fetcher) FetchMetadata(relPath string) ([]byte, error) {
	if f.cache.Exists(relPath) {
		size, err := f.cache.Size(relPath)
		if err == nil && size >= 256 {
			return f.cache.Read(relPath)
		}
		_ = f.cache.Remove(relPath)
	}

	for _, repo := range f.repositories {
		body, ok := f.get(repo + relPath)
		if !ok {
			continue
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			continue
		}
		if err := f.cache.WriteAtomic(relPath, body); err != nil {
			return nil, errs.Wrap(errs.CacheIO, "writing "+relPath, err)
		}
		return body, nil
	}

	return nil, errs.New(errs.MetadataMissing, relPath)
}

func (f *Fetcher) resolveSnapshotPath(a model.Artifact, ext string) (string, error) {
	metaRel := a.VersionMetadataPath()
	raw, err := f.FetchMetadata(metaRel)
	if err != nil {
		return "", err
	}
	value, err := metadata.ResolveSnapshot(raw, ext)
	if err != nil {
		return "", errs.Wrap(errs.VersionResolution, a.String(), err)
	}
	// Rewrite the filename component of the artifact path with the
	// resolved timestamped value, keeping the g/n/v directory.
	return a.RelativePath(ext)[:len(a.RelativePath(ext))-len(fmt.Sprintf("%s-%s.%s", a.Name, a.Version, ext))] +
		fmt.Sprintf("%s-%s.%s", a.Name, value, ext), nil
}

func (f *Fetcher) get(url string) ([]byte, bool) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}
	return body, true
}
