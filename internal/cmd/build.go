package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/solarmoff-afk/spawn/internal/cache"
	"github.com/solarmoff-afk/spawn/internal/config"
	"github.com/solarmoff-afk/spawn/internal/emitter"
	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/fetch"
	"github.com/solarmoff-afk/spawn/internal/fsx"
	"github.com/solarmoff-afk/spawn/internal/logging"
	"github.com/solarmoff-afk/spawn/internal/manifest"
	"github.com/solarmoff-afk/spawn/internal/model"
	"github.com/solarmoff-afk/spawn/internal/resolver"
)

const manifestTemplateName = "AndroidManifest.xml"

func cacheRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.CacheIO, "resolving $HOME", err)
	}
	return filepath.Join(home, ".spawn", "repository"), nil
}

func runBuild(paths []string, mode emitter.Mode) error {
	if len(paths) == 0 {
		return errs.New(errs.ConfigIO, "at least one configuration path is required")
	}

	log.Task("loading configuration")
	project, err := config.Load(paths)
	if err != nil {
		return err
	}

	root, err := cacheRoot()
	if err != nil {
		return err
	}
	c := cache.New(root, fsx.OS{})

	fingerprint := config.Fingerprint(project)
	previous, err := config.ReadLock(project)
	if err != nil {
		return err
	}

	resolved := model.ResolvedSet{}
	needsResolve := fingerprint != previous
	if !needsResolve {
		resolved, err = config.ReadResolvedSet(project)
		if err != nil {
			return err
		}
		// A matching lock with no persisted set to read back is resolved again.
		needsResolve = len(resolved) == 0 && len(project.Dependencies) > 0
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return errs.Wrap(errs.ConfigIO, "--log-level", err)
	}
	diag := logging.NewDiagnostic(level, logFormat, os.Stderr)

	f := fetch.New(c, log, fetch.NormalizeRepositories(project.Repositories)).WithDiagnostic(diag)
	res := resolver.New(f, c, log)

	if needsResolve {
		log.Task("resolving dependencies")
		roots, err := rootArtifacts(project)
		if err != nil {
			return err
		}
		resolved = res.Resolve(roots)

		log.Task("downloading artifacts")
		for _, result := range res.DownloadAll(resolved) {
			if result.Err != nil {
				log.Warn("failed to fetch %s: %v", result.Artifact, result.Err)
			}
		}

		if missing := res.Verify(resolved); len(missing) > 0 {
			log.Warn("missing artifacts after download: %s", strings.Join(missing, ", "))
		} else if len(resolved) > 0 {
			if err := config.WriteResolvedSet(project, resolved); err != nil {
				return err
			}
			if err := config.WriteLock(project, fingerprint); err != nil {
				return err
			}
		}
	} else {
		log.Note("dependencies unchanged, skipping resolution")
	}

	log.Task("transforming manifest")
	if err := transformManifest(project); err != nil {
		return err
	}

	log.Task("emitting build graph")
	return emitBuildGraph(project, resolved, c, mode)
}

func rootArtifacts(project *model.Project) ([]model.Artifact, error) {
	var roots []model.Artifact
	for coord, ver := range project.Dependencies {
		parts := strings.SplitN(coord, ":", 2)
		if len(parts) != 2 {
			log.Warn("skipping malformed dependency coordinate %q", coord)
			continue
		}
		a, err := model.New(parts[0], parts[1], ver)
		if err != nil {
			log.Warn("skipping dependency %q: %v", coord, err)
			continue
		}
		roots = append(roots, a)
	}
	return roots, nil
}

func transformManifest(project *model.Project) error {
	templatePath := filepath.Join(project.BasePath, manifestTemplateName)
	in, err := os.Open(templatePath)
	if err != nil {
		return errs.Wrap(errs.ManifestMissing, templatePath, err)
	}
	defer in.Close()

	outPath := filepath.Join(project.BasePath, ".spawn", "cache", manifestTemplateName)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errs.Wrap(errs.ManifestParse, outPath, err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return errs.Wrap(errs.ManifestParse, outPath, err)
	}
	defer out.Close()

	return manifest.Transform(in, out, project.Package)
}

func emitBuildGraph(project *model.Project, resolved model.ResolvedSet, c *cache.Cache, mode emitter.Mode) error {
	outPath := filepath.Join(project.BasePath, ".spawn", "build", "build.ninja")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errs.Wrap(errs.EmitIO, outPath, err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return errs.Wrap(errs.EmitIO, outPath, err)
	}
	defer out.Close()

	return emitter.Emit(out, project, resolved, c, mode)
}
