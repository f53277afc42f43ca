package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikekucharski/COMP603-2015/pkg/driver"
)

func TestBfDepsInstallAndRunFromPathSource(t *testing.T) {
	root := enterTempDir(t)
	shared := filepath.Join(root, "shared")
	writeFile(t, filepath.Join(shared, "echo.bf"), ",[.,]")

	project := filepath.Join(root, "app")
	writeFile(t, filepath.Join(project, "bf.yml"), `
name: app
targets:
  echo: "@local/echo.bf"
sources:
  local:
    path: ../shared
`)
	chdir(t, project)
	cacheDir := filepath.Join(root, "cache")
	t.Setenv("BF_HOME", cacheDir)

	code, stdout, stderr := captureCLI(t, []string{"deps", "install"}, "")
	if code != 0 {
		t.Fatalf("bf deps install exited %d (stderr: %q)", code, stderr)
	}
	for _, want := range []string{"Manifest: ", "Cache directory: " + cacheDir, "Installed local ", "Created bf.lock: ", "Sources installed."} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("install output missing %q:\n%s", want, stdout)
		}
	}

	lock, err := driver.LoadLockfile(filepath.Join(project, driver.LockfileFileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if lock.Root != "app" || len(lock.Sources) != 1 {
		t.Fatalf("lockfile unexpected: %#v", lock)
	}
	entry := lock.Sources[0]
	if entry.Name != "local" || entry.Source != "path:../shared" || len(entry.Version) != 12 {
		t.Fatalf("lock entry unexpected: %#v", entry)
	}
	if !strings.HasPrefix(entry.Checksum, entry.Version) {
		t.Fatalf("version %q should prefix checksum %q", entry.Version, entry.Checksum)
	}
	cached := filepath.Join(cacheDir, "src", "local", entry.Version, "echo.bf")
	if _, err := os.Stat(cached); err != nil {
		t.Fatalf("expected cached program at %s: %v", cached, err)
	}

	code, stdout, stderr = captureCLI(t, []string{"run", "--eof", "zero"}, "hi")
	if code != 0 || stdout != "hi" {
		t.Fatalf("bf run = (%d, %q, %q)", code, stdout, stderr)
	}
	code, stdout, stderr = captureCLI(t, []string{"run", "--eof", "zero", "@local/echo.bf"}, "there")
	if code != 0 || stdout != "there" {
		t.Fatalf("bf run @local/echo.bf = (%d, %q, %q)", code, stdout, stderr)
	}

	code, stdout, stderr = captureCLI(t, []string{"deps", "install"}, "")
	if code != 0 {
		t.Fatalf("second install exited %d (stderr: %q)", code, stderr)
	}
	if !strings.Contains(stdout, "Using local "+entry.Version) || !strings.Contains(stdout, "bf.lock already up to date") {
		t.Fatalf("second install output:\n%s", stdout)
	}

	writeFile(t, filepath.Join(shared, "echo.bf"), ",.")
	code, stdout, stderr = captureCLI(t, []string{"deps", "update", "local"}, "")
	if code != 0 {
		t.Fatalf("update exited %d (stderr: %q)", code, stderr)
	}
	if !strings.Contains(stdout, "Updated bf.lock") {
		t.Fatalf("update output:\n%s", stdout)
	}
	updated, err := driver.LoadLockfile(filepath.Join(project, driver.LockfileFileName))
	if err != nil {
		t.Fatalf("LoadLockfile after update: %v", err)
	}
	if got := updated.Find("local"); got == nil || got.Version == entry.Version {
		t.Fatalf("update should pin the new contents, got %#v", got)
	}

	code, _, stderr = captureCLI(t, []string{"deps", "update", "missing"}, "")
	if code != 1 || !strings.Contains(stderr, "sources not declared in bf.yml: missing") {
		t.Fatalf("update missing = (%d, %q)", code, stderr)
	}
}

func TestBfDepsRequiresManifest(t *testing.T) {
	enterTempDir(t)
	code, _, stderr := captureCLI(t, []string{"deps", "install"}, "")
	if code != 1 || !strings.Contains(stderr, "unable to locate bf.yml") {
		t.Fatalf("deps install without manifest = (%d, %q)", code, stderr)
	}
}

func TestBfDepsRejectsForeignLockfile(t *testing.T) {
	dir := enterTempDir(t)
	writeFile(t, filepath.Join(dir, "bf.yml"), "name: app")
	writeFile(t, filepath.Join(dir, "bf.lock"), `
root: other
generated: "2026-01-01T00:00:00Z"
tool: bf 0.1.0-dev
sources: []
`)
	code, _, stderr := captureCLI(t, []string{"deps", "install"}, "")
	if code != 1 || !strings.Contains(stderr, `lockfile root "other" does not match manifest name "app"`) {
		t.Fatalf("foreign lockfile = (%d, %q)", code, stderr)
	}
}

func TestSourceInstallerGitRev(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "classics")
	writeFile(t, filepath.Join(repoDir, "hello.bf"), helloWorld)
	commit := initGitRepo(t, repoDir)

	manifestPath := filepath.Join(root, "app", "bf.yml")
	writeFile(t, manifestPath, `
name: app
sources:
  classics:
    git: `+repoDir+`
    rev: "`+commit+`"
  stale-entry-check:
    path: ../classics
`)
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	cacheDir := filepath.Join(root, "cache")
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	lock.Upsert(&driver.LockedSource{Name: "retired", Version: "1", Source: "path:../retired"})

	changed, logs, err := newSourceInstaller(manifest, cacheDir).Install(lock)
	if err != nil {
		t.Fatalf("Install: %v (logs: %v)", err, logs)
	}
	if !changed {
		t.Fatalf("expected lockfile changes")
	}

	entry := lock.Find("classics")
	if entry == nil {
		t.Fatalf("classics missing from lock: %#v", lock.Sources)
	}
	if entry.Version != commit {
		t.Fatalf("Version = %q, want %q", entry.Version, commit)
	}
	if want := "git+" + repoDir + "@" + commit; entry.Source != want {
		t.Fatalf("Source = %q, want %q", entry.Source, want)
	}
	checkout := driver.SourceDir(cacheDir, "classics", commit)
	if _, err := os.Stat(filepath.Join(checkout, "hello.bf")); err != nil {
		t.Fatalf("expected checkout at %s: %v", checkout, err)
	}
	if _, err := os.Stat(filepath.Join(checkout, ".git")); !os.IsNotExist(err) {
		t.Fatalf("checkout should not keep .git: %v", err)
	}
	if lock.Find("retired") != nil {
		t.Fatalf("undeclared source should be dropped: %#v", lock.Sources)
	}
	if lock.Find("stale-entry-check") == nil {
		t.Fatalf("path source missing from lock: %#v", lock.Sources)
	}

	// Installed sources are reused without refetching.
	changed, logs, err = newSourceInstaller(manifest, cacheDir).Install(lock)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if changed {
		t.Fatalf("second install should not change the lockfile (logs: %v)", logs)
	}

	loader := driver.NewLoader(driver.LoaderOptions{Lockfile: lock, CacheDir: cacheDir})
	program, err := loader.Load("@classics/hello.bf")
	if err != nil {
		t.Fatalf("Load cached program: %v", err)
	}
	if program.AST.Len() == 0 {
		t.Fatalf("expected a parsed program")
	}
}

func TestGitRevisionFromSpec(t *testing.T) {
	cases := []struct {
		spec       driver.SourceSpec
		revision   string
		descriptor string
	}{
		{spec: driver.SourceSpec{Rev: "abc123"}, revision: "abc123", descriptor: "abc123"},
		{spec: driver.SourceSpec{Tag: "v1.0.0"}, revision: "refs/tags/v1.0.0", descriptor: "v1.0.0"},
		{spec: driver.SourceSpec{Branch: "main"}, revision: "refs/heads/main", descriptor: "main"},
	}
	for _, tc := range cases {
		revision, descriptor, err := gitRevisionFromSpec(&tc.spec)
		if err != nil {
			t.Fatalf("gitRevisionFromSpec(%#v): %v", tc.spec, err)
		}
		if string(revision) != tc.revision || descriptor != tc.descriptor {
			t.Fatalf("gitRevisionFromSpec(%#v) = (%q, %q)", tc.spec, revision, descriptor)
		}
	}
	if _, _, err := gitRevisionFromSpec(&driver.SourceSpec{}); err == nil {
		t.Fatalf("expected an error without rev, tag or branch")
	}
}

func TestGitPinnedVersion(t *testing.T) {
	if got := gitPinnedVersion("v1.0.0", "abc"); got != "v1.0.0@abc" {
		t.Fatalf("tag pin = %q", got)
	}
	if got := gitPinnedVersion("abc", "abc"); got != "abc" {
		t.Fatalf("rev pin = %q", got)
	}
	if got := gitPinnedVersion("main", ""); got != "main" {
		t.Fatalf("no commit = %q", got)
	}
}
