package testbed

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/rhi/engine/core"
)

// Watch loads the scene at path and calls fn with it, then again every
// time the file is written or replaced, until ctx is done. The parent
// directory is watched since editors often save by renaming over the
// file.
func Watch(ctx context.Context, path string, fn func(*Scene, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	fn(LoadScene(path))
	for {
		select {
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				core.LogDebug("scene %s changed (%s)", path, e.Op)
				fn(LoadScene(path))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			core.LogError(err.Error())

		case <-ctx.Done():
			return nil
		}
	}
}
