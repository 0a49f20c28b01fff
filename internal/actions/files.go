package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/modsetup/internal/config"
	"github.com/imamik/modsetup/internal/util/async"
	"github.com/imamik/modsetup/internal/util/retry"
)

var (
	// ErrSamePath is reported for a mapping whose source and destination
	// are the same file or directory.
	ErrSamePath = errors.New("source and destination are the same path")
	// ErrDestinationInsideSource is reported for a directory mapped into
	// its own subtree.
	ErrDestinationInsideSource = errors.New("destination is inside the source directory")
)

// copyPaths copies every mapping entry concurrently. With move set, each
// source is deleted with retry once its copy succeeded.
func (r *Runner) copyPaths(ctx context.Context, log logr.Logger, a config.Action, move bool) Result {
	res := Result{Kind: a.Kind, ExitCode: -1, Entries: make([]EntryResult, len(a.PathMap))}

	tasks := make([]async.Task, 0, len(a.PathMap))
	for i, m := range a.PathMap {
		tasks = append(tasks, async.Task{
			Name: m.Source,
			Func: func(ctx context.Context) error {
				entry := r.copyEntry(ctx, log, a.Kind, m, move)
				res.Entries[i] = entry
				return entry.Err
			},
		})
	}

	res.Err = async.RunParallel(ctx, tasks, false)
	return res
}

func (r *Runner) copyEntry(ctx context.Context, log logr.Logger, kind config.ActionKind, m config.PathMapping, move bool) EntryResult {
	src := r.resolve(m.Source)
	dst := r.resolve(m.Destination)
	entry := EntryResult{Path: src, Destination: dst}

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			entry.Status = StatusMissing
			log.V(1).Info("source missing, skipped", "path", src)
			return entry
		}
		entry.Status = StatusFailed
		entry.Err = &ActionFault{Kind: kind, Path: src, Err: err}
		return entry
	}

	if err := checkOverlap(src, dst, info); err != nil {
		entry.Status = StatusFailed
		entry.Err = &ActionFault{Kind: kind, Path: src, Err: err}
		log.Info("mapping overlaps its source, skipped", "path", src, "destination", dst)
		return entry
	}

	if info.IsDir() {
		err = copyTree(src, dst)
	} else {
		err = copyFile(src, dst, info.Mode().Perm())
	}
	if err != nil {
		entry.Status = StatusFailed
		entry.Err = &ActionFault{Kind: kind, Path: src, Err: err}
		return entry
	}

	if move {
		deleted := r.deleteEntry(ctx, log, kind, m.Source)
		deleted.Destination = dst
		return deleted
	}

	entry.Status = StatusDone
	return entry
}

// deletePaths removes every listed path concurrently.
func (r *Runner) deletePaths(ctx context.Context, log logr.Logger, a config.Action) Result {
	res := Result{Kind: a.Kind, ExitCode: -1, Entries: make([]EntryResult, len(a.Paths))}

	tasks := make([]async.Task, 0, len(a.Paths))
	for i, p := range a.Paths {
		tasks = append(tasks, async.Task{
			Name: p,
			Func: func(ctx context.Context) error {
				entry := r.deleteEntry(ctx, log, a.Kind, p)
				res.Entries[i] = entry
				return entry.Err
			},
		})
	}

	res.Err = async.RunParallel(ctx, tasks, false)
	return res
}

// deleteEntry removes a file or directory tree. A failed removal is retried
// after the configured pause; once the retries are spent the entry gives up.
func (r *Runner) deleteEntry(ctx context.Context, log logr.Logger, kind config.ActionKind, p string) EntryResult {
	path := r.resolve(p)
	entry := EntryResult{Path: path}

	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		entry.Status = StatusMissing
		log.V(1).Info("path missing, skipped", "path", path)
		return entry
	}

	attempts, err := retry.Do(ctx, func() error {
		err := r.remove(path)
		if permanentRemoveError(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithMaxRetries(r.deleteRetries),
		retry.WithDelay(r.retryDelay),
		retry.WithOnRetry(func(attempt int, err error) {
			log.V(1).Info("delete failed, retrying", "path", path, "attempt", attempt, "error", err.Error())
		}),
	)
	entry.Attempts = attempts

	switch {
	case err == nil:
		entry.Status = StatusDone
	case retry.IsExhausted(err):
		entry.Status = StatusGaveUp
		entry.Err = &ActionFault{Kind: kind, Path: path, Err: err}
	default:
		entry.Status = StatusFailed
		entry.Err = &ActionFault{Kind: kind, Path: path, Err: err}
	}
	return entry
}

// permanentRemoveError reports removal errors that waiting cannot fix. On
// Windows a locked file also surfaces as access denied, so only unix
// permission errors are final.
func permanentRemoveError(err error) bool {
	return err != nil && runtime.GOOS != "windows" && errors.Is(err, fs.ErrPermission)
}

// checkOverlap rejects mappings that would truncate the source before it
// is read or copy a directory into itself.
func checkOverlap(src, dst string, srcInfo fs.FileInfo) error {
	s, d := filepath.Clean(src), filepath.Clean(dst)
	if s == d || (runtime.GOOS == "windows" && strings.EqualFold(s, d)) {
		return ErrSamePath
	}
	if dstInfo, err := os.Stat(d); err == nil && os.SameFile(srcInfo, dstInfo) {
		return ErrSamePath
	}
	if !srcInfo.IsDir() {
		return nil
	}
	rel, err := filepath.Rel(s, d)
	if err != nil {
		return nil
	}
	if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrDestinationInsideSource
	}
	return nil
}

// copyTree copies the directory src into dst, creating directories as
// needed and overwriting existing files.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			// sockets, devices and symlinks are not part of a setup payload
			return nil
		}
	})
}

// copyFile copies a single file, creating the destination directory and
// truncating an existing destination.
func copyFile(src, dst string, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	// #nosec G304
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// #nosec G304
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0o200)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
