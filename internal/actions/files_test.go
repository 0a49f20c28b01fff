package actions

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/modsetup/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newTestRunner(t *testing.T, dir string, opts ...Option) *Runner {
	t.Helper()
	opts = append([]Option{
		WithBaseDir(dir),
		WithLogger(testr.New(t)),
		WithDeletePolicy(10, time.Millisecond),
	}, opts...)
	return NewRunner(opts...)
}

func TestCopyPaths_FileCreatesDestinationDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "alpha")
	r := newTestRunner(t, dir)

	res := r.Run(context.Background(), config.Action{
		Kind:    config.KindCopyPaths,
		PathMap: config.PathMap{{Source: "a.txt", Destination: "b/a.txt"}},
	})

	require.NoError(t, res.Err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, StatusDone, res.Entries[0].Status)
	assert.Equal(t, "alpha", readFile(t, filepath.Join(dir, "b", "a.txt")))
	assert.Equal(t, "alpha", readFile(t, filepath.Join(dir, "a.txt")), "copy keeps the source")
}

func TestCopyPaths_TreeIsIdempotent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mod", "plugins", "x.dll"), "x")
	writeFile(t, filepath.Join(dir, "mod", "readme.md"), "read me")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mod", "empty"), 0o755))
	writeFile(t, filepath.Join(dir, "game", "mod", "readme.md"), "stale and much longer content")

	r := newTestRunner(t, dir)
	action := config.Action{
		Kind:    config.KindCopyPaths,
		PathMap: config.PathMap{{Source: "mod", Destination: "game/mod"}},
	}

	snapshot := func() map[string]string {
		out := map[string]string{}
		root := filepath.Join(dir, "game")
		require.NoError(t, filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			require.NoError(t, err)
			rel, _ := filepath.Rel(root, p)
			if d.IsDir() {
				out[rel+"/"] = ""
				return nil
			}
			out[rel] = readFile(t, p)
			return nil
		}))
		return out
	}

	require.NoError(t, r.Run(context.Background(), action).Err)
	once := snapshot()
	require.NoError(t, r.Run(context.Background(), action).Err)
	twice := snapshot()

	assert.Equal(t, once, twice)
	assert.Equal(t, "read me", once[filepath.Join("mod", "readme.md")])
	assert.Equal(t, "x", once[filepath.Join("mod", "plugins", "x.dll")])
	assert.Contains(t, once, filepath.Join("mod", "empty")+"/")
}

func TestCopyPaths_MissingSourceSkipped(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "present.txt"), "p")
	r := newTestRunner(t, dir)

	res := r.Run(context.Background(), config.Action{
		Kind: config.KindCopyPaths,
		PathMap: config.PathMap{
			{Source: "absent.txt", Destination: "out/absent.txt"},
			{Source: "present.txt", Destination: "out/present.txt"},
		},
	})

	require.NoError(t, res.Err)
	assert.Equal(t, StatusMissing, res.Entries[0].Status)
	assert.Equal(t, StatusDone, res.Entries[1].Status)
	assert.NoFileExists(t, filepath.Join(dir, "out", "absent.txt"))
	assert.FileExists(t, filepath.Join(dir, "out", "present.txt"))
}

func TestMovePaths_RemovesSource(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "deep", "f.txt"), "f")
	writeFile(t, filepath.Join(dir, "single.txt"), "s")
	r := newTestRunner(t, dir)

	res := r.Run(context.Background(), config.Action{
		Kind: config.KindMovePaths,
		PathMap: config.PathMap{
			{Source: "src", Destination: "dst"},
			{Source: "single.txt", Destination: "dst/single.txt"},
		},
	})

	require.NoError(t, res.Err)
	for _, e := range res.Entries {
		assert.Equal(t, StatusDone, e.Status)
		assert.Equal(t, 1, e.Attempts)
	}
	assert.NoDirExists(t, filepath.Join(dir, "src"))
	assert.NoFileExists(t, filepath.Join(dir, "single.txt"))
	assert.Equal(t, "f", readFile(t, filepath.Join(dir, "dst", "deep", "f.txt")))
	assert.Equal(t, "s", readFile(t, filepath.Join(dir, "dst", "single.txt")))
}

func TestDeletePaths_FilesAndTrees(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.txt"), "o")
	writeFile(t, filepath.Join(dir, "cache", "a", "b.bin"), "b")
	r := newTestRunner(t, dir)

	res := r.Run(context.Background(), config.Action{
		Kind:  config.KindDeletePaths,
		Paths: []string{"old.txt", "cache", "never-existed"},
	})

	require.NoError(t, res.Err)
	assert.Equal(t, StatusDone, res.Entries[0].Status)
	assert.Equal(t, StatusDone, res.Entries[1].Status)
	assert.Equal(t, StatusMissing, res.Entries[2].Status)
	assert.NoFileExists(t, filepath.Join(dir, "old.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "cache"))
}

func TestDeletePaths_NoneExist(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := newTestRunner(t, dir, WithDeletePolicy(10, time.Hour))

	start := time.Now()
	res := r.Run(context.Background(), config.Action{
		Kind:  config.KindDeletePaths,
		Paths: []string{"a", "b/c", "d.txt"},
	})

	require.NoError(t, res.Err)
	assert.Less(t, time.Since(start), time.Second)
	for _, e := range res.Entries {
		assert.Equal(t, StatusMissing, e.Status)
		assert.Zero(t, e.Attempts)
	}
}

func TestDeletePaths_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := filepath.Join(dir, "locked.dat")
	writeFile(t, target, "l")

	var calls atomic.Int32
	r := newTestRunner(t, dir)
	r.remove = func(p string) error {
		if calls.Add(1) <= 4 {
			return errors.New("file is in use")
		}
		return os.RemoveAll(p)
	}

	res := r.Run(context.Background(), config.Action{Kind: config.KindDeletePaths, Paths: []string{"locked.dat"}})

	require.NoError(t, res.Err)
	assert.Equal(t, StatusDone, res.Entries[0].Status)
	assert.Equal(t, 5, res.Entries[0].Attempts)
	assert.NoFileExists(t, target)
}

func TestDeletePaths_GivesUpAfterTenRetries(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stuck.dat"), "s")

	var calls atomic.Int32
	r := newTestRunner(t, dir)
	r.remove = func(string) error {
		calls.Add(1)
		return errors.New("access denied")
	}

	res := r.Run(context.Background(), config.Action{Kind: config.KindDeletePaths, Paths: []string{"stuck.dat"}})

	assert.Equal(t, int32(11), calls.Load())
	require.Len(t, res.GaveUp(), 1)
	assert.Equal(t, 11, res.Entries[0].Attempts)
	assert.Equal(t, StatusGaveUp, res.Entries[0].Status)

	var fault *ActionFault
	require.True(t, errors.As(res.Err, &fault))
	assert.Equal(t, config.KindDeletePaths, fault.Kind)
}

func TestDeletePaths_FansOut(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(dir, name), name)
	}

	var current, peak atomic.Int32
	release := make(chan struct{})
	r := newTestRunner(t, dir)
	r.remove = func(p string) error {
		c := current.Add(1)
		for {
			old := peak.Load()
			if c <= old || peak.CompareAndSwap(old, c) {
				break
			}
		}
		if c == 3 {
			close(release)
		}
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		current.Add(-1)
		return os.RemoveAll(p)
	}

	res := r.Run(context.Background(), config.Action{Kind: config.KindDeletePaths, Paths: []string{"a", "b", "c"}})
	require.NoError(t, res.Err)
	assert.Equal(t, int32(3), peak.Load())
}

func TestCopyPaths_SamePathKeepsSource(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		kind        config.ActionKind
		destination string
	}{
		{name: "copy with backslash", kind: config.KindCopyPaths, destination: `mods\a.txt`},
		{name: "copy with dot segment", kind: config.KindCopyPaths, destination: "./mods/../mods/a.txt"},
		{name: "move onto itself", kind: config.KindMovePaths, destination: "./mods/a.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			src := filepath.Join(dir, "mods", "a.txt")
			writeFile(t, src, "payload")
			r := newTestRunner(t, dir)

			res := r.Run(context.Background(), config.Action{
				Kind:    tt.kind,
				PathMap: config.PathMap{{Source: "mods/a.txt", Destination: tt.destination}},
			})

			require.Error(t, res.Err)
			assert.ErrorIs(t, res.Err, ErrSamePath)
			assert.Equal(t, StatusFailed, res.Entries[0].Status)
			assert.Equal(t, "payload", readFile(t, src))
		})
	}
}

func TestCopyPaths_SameFileThroughSymlink(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "mods", "a.txt")
	writeFile(t, src, "payload")
	if err := os.Symlink(filepath.Join(dir, "mods"), filepath.Join(dir, "alias")); err != nil {
		t.Skipf("symlinks not available: %v", err)
	}
	r := newTestRunner(t, dir)

	res := r.Run(context.Background(), config.Action{
		Kind:    config.KindMovePaths,
		PathMap: config.PathMap{{Source: "mods/a.txt", Destination: "alias/a.txt"}},
	})

	assert.ErrorIs(t, res.Err, ErrSamePath)
	assert.Equal(t, "payload", readFile(t, src))
}

func TestCopyPaths_DirectoryIntoOwnSubtree(t *testing.T) {
	t.Parallel()
	for _, kind := range []config.ActionKind{config.KindCopyPaths, config.KindMovePaths} {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "A", "x.txt"), "x")
			r := newTestRunner(t, dir)

			res := r.Run(context.Background(), config.Action{
				Kind:    kind,
				PathMap: config.PathMap{{Source: "A", Destination: "A/sub"}},
			})

			assert.ErrorIs(t, res.Err, ErrDestinationInsideSource)
			assert.Equal(t, StatusFailed, res.Entries[0].Status)
			assert.Equal(t, "x", readFile(t, filepath.Join(dir, "A", "x.txt")))
			assert.NoDirExists(t, filepath.Join(dir, "A", "sub"))
		})
	}
}

func TestCopyPaths_SiblingWithSharedPrefixIsAllowed(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A", "x.txt"), "x")
	r := newTestRunner(t, dir)

	res := r.Run(context.Background(), config.Action{
		Kind:    config.KindCopyPaths,
		PathMap: config.PathMap{{Source: "A", Destination: "AB"}},
	})

	require.NoError(t, res.Err)
	assert.Equal(t, "x", readFile(t, filepath.Join(dir, "AB", "x.txt")))
}

func TestDeletePaths_PermissionErrorIsNotRetried(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("locked files report access denied on windows and are retried")
	}
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ro", "f.dat"), "f")

	var calls atomic.Int32
	r := newTestRunner(t, dir, WithDeletePolicy(10, time.Hour))
	r.remove = func(p string) error {
		calls.Add(1)
		return &fs.PathError{Op: "unlinkat", Path: p, Err: fs.ErrPermission}
	}

	res := r.Run(context.Background(), config.Action{Kind: config.KindDeletePaths, Paths: []string{"ro/f.dat"}})

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StatusFailed, res.Entries[0].Status)
	assert.Equal(t, 1, res.Entries[0].Attempts)
	assert.Empty(t, res.GaveUp())
	assert.ErrorIs(t, res.Err, fs.ErrPermission)
}
