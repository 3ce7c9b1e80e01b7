package server

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/mapgraph/pkg/preset"
)

// watchPresets reloads the preset catalog whenever its file is written.
// A catalog that fails to load is logged and the previous one kept.
func (s *Server) watchPresets(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace files by rename, so watch the directory.
	path := filepath.Clean(s.opts.PresetsPath)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	s.logger.Debug("watching presets", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.reloadPresets(path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("preset watcher", "err", err)
		}
	}
}

func (s *Server) reloadPresets(path string) {
	cat, err := preset.LoadFile(path)
	if err != nil {
		s.logger.Warn("reload presets", "path", path, "err", err)
		return
	}
	s.SetSchemas(cat)
	s.logger.Info("reloaded presets", "path", path, "presets", cat.Len())
}
