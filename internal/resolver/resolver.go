// Package resolver implements spawn's graph resolver: a breadth-first
// traversal of the transitive dependency graph with scope filtering and
// a deterministic max-version conflict policy, followed by the
// concurrent download-and-unpack pass.
package resolver

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/solarmoff-afk/spawn/internal/cache"
	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/fetch"
	"github.com/solarmoff-afk/spawn/internal/logging"
	"github.com/solarmoff-afk/spawn/internal/metadata"
	"github.com/solarmoff-afk/spawn/internal/model"
	"github.com/solarmoff-afk/spawn/internal/pom"
	"github.com/solarmoff-afk/spawn/internal/unpack"
)

// minArtifactBytes is the post-resolution size floor a downloaded
// artifact must meet to count as verified.
const minArtifactBytes = 1024

// downloadWorkers bounds the worker pool of the parallel download phase.
const downloadWorkers = 8

// Resolver owns the BFS traversal and the download/unpack pass that
// follows it, sharing a single Fetcher (and therefore a single mutable
// repository list and cache) across both.
type Resolver struct {
	fetcher *fetch.Fetcher
	cache   *cache.Cache
	log     *logging.Reporter
}

// New builds a Resolver over an already-constructed Fetcher and Cache.
func New(fetcher *fetch.Fetcher, c *cache.Cache, log *logging.Reporter) *Resolver {
	return &Resolver{fetcher: fetcher, cache: c, log: log}
}

type queued struct {
	artifact model.Artifact
}

// Resolve runs the BFS traversal seeded by roots and returns the won
// ResolvedSet. Repository list mutation (fetcher.AddRepository) happens
// only on this call's goroutine — the coordinator — establishing the
// happens-before relationship download workers rely on before they
// read it.
func (r *Resolver) Resolve(roots []model.Artifact) model.ResolvedSet {
	seen := map[string]bool{}
	versions := map[string][]model.Artifact{}
	var queue []queued

	for _, root := range roots {
		queue = append(queue, queued{artifact: root})
		seen[root.Coords()] = true
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		r.visit(node.artifact, versions, seen, &queue)
	}

	return resolveConflicts(versions, r.log)
}

func (r *Resolver) visit(artifact model.Artifact, versions map[string][]model.Artifact, seen map[string]bool, queue *[]queued) {
	id := artifact.ID()
	versions[id] = append(versions[id], artifact)
	slog.Debug("visiting artifact", "coords", artifact.Coords())

	raw, err := r.fetcher.FetchPom(artifact)
	if err != nil {
		r.log.Warn("could not fetch POM for %s: %v", artifact, err)
		return
	}

	eff, err := pom.BuildEffective(artifact, raw, r.fetcher)
	if err != nil {
		r.log.Warn("could not build effective POM for %s: %v", artifact, err)
		return
	}

	for _, repo := range eff.Repositories {
		r.fetcher.AddRepository(repo)
	}

	for _, dep := range eff.Dependencies {
		if dep.IsExcludedScope() {
			r.log.Note("skipping %s: excluded scope %q", dep.Artifact.ID(), dep.EffectiveScope())
			continue
		}

		version := pom.Interpolate(dep.Artifact.Version, eff.Properties, artifact)
		if version == "" || hasUnresolvedPlaceholder(version) {
			if managed, ok := eff.LookupManaged(dep.Artifact.ID()); ok {
				version = pom.Interpolate(managed.Artifact.Version, eff.Properties, artifact)
			}
		}
		if version == "" || hasUnresolvedPlaceholder(version) {
			r.log.Warn("skipping %s: no resolvable version", dep.Artifact.ID())
			continue
		}

		childArt, err := model.New(dep.Artifact.Group, dep.Artifact.Name, version)
		if err != nil {
			r.log.Warn("skipping %s: %v", dep.Artifact.ID(), err)
			continue
		}

		if childArt.IsDynamic() {
			resolved, err := r.resolveDynamic(childArt)
			if err != nil {
				r.log.Warn("skipping %s: %v", childArt.ID(), err)
				continue
			}
			childArt = resolved
		}

		if seen[childArt.Coords()] {
			continue
		}
		seen[childArt.Coords()] = true
		*queue = append(*queue, queued{artifact: childArt})
	}
}

func hasUnresolvedPlaceholder(v string) bool {
	return len(v) > 2 && v[0] == '$' && v[1] == '{'
}

func (r *Resolver) resolveDynamic(a model.Artifact) (model.Artifact, error) {
	raw, err := r.fetcher.FetchMetadata(a.GAMetadataPath())
	if err != nil {
		return model.Artifact{}, err
	}
	resolved, err := metadata.ResolveDynamic(raw, a.Version)
	if err != nil {
		return model.Artifact{}, errs.Wrap(errs.VersionResolution, a.ID(), err)
	}
	return model.New(a.Group, a.Name, resolved)
}

// resolveConflicts implements the post-pass conflict policy: the
// maximum version by semantic compare wins for each id, regardless of
// BFS visit order.
func resolveConflicts(versions map[string][]model.Artifact, log *logging.Reporter) model.ResolvedSet {
	result := model.ResolvedSet{}

	ids := make([]string, 0, len(versions))
	for id := range versions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		seen := map[string]model.Artifact{}
		for _, a := range versions[id] {
			seen[a.Version] = a
		}
		if len(seen) > 1 {
			log.Note("Conflict detected for %s: %d versions found", id, len(seen))
		}
		vers := make([]string, 0, len(seen))
		for v := range seen {
			vers = append(vers, v)
		}
		sort.Strings(vers)
		var winner model.Artifact
		first := true
		for _, v := range vers {
			a := seen[v]
			if first || model.CompareVersions(a.Version, winner.Version) > 0 {
				winner = a
				first = false
			}
		}
		result[id] = winner
	}

	return result
}

// DownloadResult records the outcome of fetching and (for AARs)
// unpacking one resolved artifact.
type DownloadResult struct {
	Artifact model.Artifact
	Err      error
}

// DownloadAll runs the download/unpack pass concurrently over a
// fixed-size worker pool: try the AAR first, then the JAR, unpacking
// any AAR that was fetched. Each artifact writes to a unique cache path,
// so workers need no coordination beyond the filesystem.
func (r *Resolver) DownloadAll(set model.ResolvedSet) []DownloadResult {
	artifacts := make([]model.Artifact, 0, len(set))
	for _, a := range set {
		artifacts = append(artifacts, a)
	}

	results := make([]DownloadResult, len(artifacts))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < downloadWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = DownloadResult{Artifact: artifacts[i], Err: r.downloadOne(artifacts[i])}
			}
		}()
	}
	for i := range artifacts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Resolver) downloadOne(a model.Artifact) error {
	if rel, err := r.fetcher.Fetch(a, "aar"); err == nil {
		dest := r.cache.UnpackedDir(a)
		if err := unpack.AAR(r.cache.Path(rel), dest); err != nil {
			r.log.Error("unpacking %s: %v", a, err)
			return err
		}
		return nil
	}

	if _, err := r.fetcher.Fetch(a, "jar"); err == nil {
		return nil
	}

	return errs.New(errs.ArtifactNotFound, a.String())
}

// Verify implements the post-resolution check: every resolved
// artifact must have either a .aar or .jar of at least 1024 bytes in the
// cache. It returns the ids that failed verification; a non-empty result
// means the caller must not write the lock file.
func (r *Resolver) Verify(set model.ResolvedSet) []string {
	var missing []string
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !r.cache.ArtifactFileExists(set[id], minArtifactBytes) {
			missing = append(missing, id)
		}
	}
	return missing
}
