package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cellpaint/internal/render"
)

// exportName returns a timestamped file name with ext.
func exportName(now time.Time, ext string) string {
	return "cellpaint-" + now.Format("20060102-150405") + ext
}

// writeFileAtomic writes data to a temp file beside path and renames it.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cellpaint-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (m *model) saveJSON() {
	path, err := m.config.GetSavePath(exportName(time.Now(), ".json"))
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if err := writeFileAtomic(path, []byte(m.store.Serialize())); err != nil {
		m.logger.Error("json export failed", "path", path, "err", err)
		m.errorMessage = fmt.Sprintf("Save failed: %v", err)
		return
	}
	m.logger.Info("json exported", "path", path)
	m.successMessage = "Saved " + path
}

func (m *model) savePNG() {
	path, err := m.config.GetSavePath(exportName(time.Now(), ".png"))
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if err := render.SavePNG(path, m.store.PersistedState(), render.Options{GridLines: true}); err != nil {
		m.logger.Error("png export failed", "path", path, "err", err)
		m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		return
	}
	m.logger.Info("png exported", "path", path)
	m.successMessage = "Exported " + path
}
