// Package emitter translates a resolved Project into the Ninja-style
// build description spawn's downstream incremental build executor
// consumes: global variables, per-module compile steps, and the
// project-level link/dex/package/sign pipeline.
package emitter

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/solarmoff-afk/spawn/internal/cache"
	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/model"
	"github.com/solarmoff-afk/spawn/internal/version"
)

// Mode is the requested output artifact.
type Mode string

const (
	ModeAPK Mode = "apk"
	ModeAAB Mode = "aab"
)

type module struct {
	name string
	dir  string
}

// Emit writes the build description for project to w, given the
// resolved dependency set and the cache they were downloaded into.
func Emit(w io.Writer, project *model.Project, resolved model.ResolvedSet, c *cache.Cache, mode Mode) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	modules := moduleList(project)

	fmt.Fprintf(bw, "# generated by spawn %s — do not edit by hand\n\n", version.Version)
	if err := writeGlobals(bw, project, resolved, c); err != nil {
		return err
	}
	writeRules(bw)

	var classesDirs, flatResFiles []string

	for _, m := range modules {
		hasJava, javaFiles := filesWithExt(filepath.Join(m.dir, "java"), ".java")
		hasKotlin, kotlinFiles := filesWithExt(filepath.Join(m.dir, "kotlin"), ".kt")
		hasRes := dirExists(filepath.Join(m.dir, "res"))

		classesOut := fmt.Sprintf("%s_out/classes", m.name)
		emittedClasses := false

		if hasJava {
			fmt.Fprintf(bw, "build %s: compile_java %s\n", classesOut, joinPaths(javaFiles))
			emittedClasses = true
		}
		if hasKotlin {
			// Same target as compile_java: the downstream executor merges
			// Java and Kotlin output into one classes directory per module.
			fmt.Fprintf(bw, "build %s: compile_kotlin %s\n", classesOut, joinPaths(kotlinFiles))
			emittedClasses = true
		}
		if emittedClasses {
			classesDirs = append(classesDirs, classesOut)
		}

		if hasRes {
			flatRes := fmt.Sprintf("%s_flat.res", m.name)
			fmt.Fprintf(bw, "build %s: compile_resources %s\n", flatRes, filepath.Join(m.dir, "res"))
			flatResFiles = append(flatResFiles, flatRes)
		}
	}

	fmt.Fprintln(bw)

	manifestOut := "$project_cache/AndroidManifest.xml"
	fmt.Fprintf(bw, "build linked.res: link_resources %s | %s\n", joinPaths(flatResFiles), manifestOut)
	fmt.Fprintf(bw, "build merged_classes: dex %s\n", joinPaths(classesDirs))

	var finalTarget string
	switch mode {
	case ModeAPK:
		fmt.Fprintln(bw, "build unsigned.apk: package_apk merged_classes linked.res")
		fmt.Fprintln(bw, "build aligned.apk: zipalign unsigned.apk")
		fmt.Fprintln(bw, "build app.apk: sign_apk aligned.apk")
		finalTarget = "app.apk"
	case ModeAAB:
		fmt.Fprintf(bw, "build app.aab: build_bundle %s\n", joinPaths(moduleDirs(modules)))
		finalTarget = "app.aab"
	default:
		return errs.New(errs.EmitIO, "unknown output mode: "+string(mode))
	}

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "default %s\n", finalTarget)

	return nil
}

func writeGlobals(w io.Writer, project *model.Project, resolved model.ResolvedSet, c *cache.Cache) error {
	targetSDK := 34
	if project.Package != nil && project.Package.TargetSDK != 0 {
		targetSDK = project.Package.TargetSDK
	}

	fmt.Fprintf(w, "project_cache = %s\n", filepath.Join(project.BasePath, ".spawn/cache"))
	fmt.Fprintf(w, "project_build = %s\n", filepath.Join(project.BasePath, ".spawn/build"))
	fmt.Fprintln(w, "android_home = $ANDROID_HOME")
	fmt.Fprintf(w, "android_jar = $android_home/platforms/android-%d/android.jar\n", targetSDK)

	classpath := []string{"$android_jar"}
	ids := make([]string, 0, len(resolved))
	for id := range resolved {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := resolved[id]
		jar := filepath.Join(c.UnpackedDir(a), "classes.jar")
		if dirExists(c.UnpackedDir(a)) && fileExists(jar) {
			classpath = append(classpath, jar)
		}
	}
	fmt.Fprintf(w, "classpath = %s\n\n", joinPaths(classpath))

	if project.Sign != nil {
		fmt.Fprintf(w, "sign_keystore = %s\n", project.Sign.Keystore)
		fmt.Fprintf(w, "sign_alias = %s\n\n", project.Sign.Alias)
	}
	return nil
}

func writeRules(w io.Writer) {
	rules := []struct{ name, command string }{
		{"compile_java", "javac -cp $classpath -d $out $in"},
		{"compile_kotlin", "kotlinc -cp $classpath -d $out $in"},
		{"compile_resources", "aapt2 compile --dir $in -o $out"},
		{"link_resources", "aapt2 link -I $android_jar --manifest $project_cache/AndroidManifest.xml -o $out $in"},
		{"dex", "d8 --output $out $in"},
		{"package_apk", "aapt2 package -o $out $in"},
		{"zipalign", "zipalign -f 4 $in $out"},
		{"sign_apk", "apksigner sign --ks $sign_keystore --ks-key-alias $sign_alias --out $out $in"},
		{"build_bundle", "bundletool build-bundle --modules=$in --output=$out"},
	}
	for _, r := range rules {
		fmt.Fprintf(w, "rule %s\n  command = %s\n\n", r.name, r.command)
	}
}

// moduleList returns the root module (named "app") followed by every
// discovered module.toml's directory, named after its own directory.
func moduleList(project *model.Project) []module {
	modules := make([]module, 0, len(project.Modules))
	for i, cfgPath := range project.Modules {
		dir := filepath.Dir(cfgPath)
		name := "app"
		if i > 0 {
			name = filepath.Base(dir)
		}
		modules = append(modules, module{name: name, dir: dir})
	}
	return modules
}

func moduleDirs(modules []module) []string {
	dirs := make([]string, len(modules))
	for i, m := range modules {
		dirs[i] = m.dir
	}
	return dirs
}

func filesWithExt(dir, ext string) (bool, []string) {
	if !dirExists(dir) {
		return false, nil
	}
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return len(files) > 0, files
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func joinPaths(paths []string) string {
	out := ""
	for i, p := range paths {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
