package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"cellpaint/internal/canvas"
	"cellpaint/internal/codec"
	"cellpaint/internal/history"
	"cellpaint/internal/storage"
	"cellpaint/internal/store"
)

type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives editor logs; the terminal belongs to the UI while it runs.
	File string `toml:"file"`
}

type Config struct {
	SaveDirectory string        `toml:"save_directory"`
	Confirmations bool          `toml:"confirmations"`
	Rows          int           `toml:"rows"`
	Cols          int           `toml:"cols"`
	Color         string        `toml:"color"`
	Palette       []string      `toml:"palette"`
	MaxHistory    int           `toml:"max_history"`
	StrokeWidth   float64       `toml:"stroke_width"`
	Storage       StorageConfig `toml:"storage"`
	Log           LogConfig     `toml:"log"`

	// path of the file the config was read from, empty for defaults only
	source string
	// keys present in the file that no field consumed
	unknown []string
}

var defaultPalette = []string{
	codec.DefaultColor,
	"#ef4444",
	"#f59e0b",
	"#22c55e",
	"#8b5cf6",
	"#ec4899",
	"#f8fafc",
	"#0f172a",
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "cellpaint")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "cellpaint")
	}
	return ".cellpaint"
}

func defaultConfig() *Config {
	return &Config{
		Confirmations: true,
		Rows:          store.DefaultRows,
		Cols:          store.DefaultCols,
		Color:         codec.DefaultColor,
		Palette:       append([]string(nil), defaultPalette...),
		MaxHistory:    history.MaxHistory,
		StrokeWidth:   codec.DefaultStrokeWidth,
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Key:     store.DefaultStorageKey,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// findConfigFile prefers $XDG_CONFIG_HOME/cellpaint/config.toml and falls
// back to ~/.cellpaintrc.
func findConfigFile() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		p := filepath.Join(dir, "cellpaint", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".cellpaintrc")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// loadConfig layers defaults, the config file and CELLPAINT_* environment
// variables. An explicit path must exist; the default locations are
// optional. Flags are applied on top by the caller.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.source = path
		for _, key := range md.Undecoded() {
			cfg.unknown = append(cfg.unknown, key.String())
		}
		sort.Strings(cfg.unknown)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	str := map[string]*string{
		"CELLPAINT_SAVE_DIRECTORY": &cfg.SaveDirectory,
		"CELLPAINT_COLOR":          &cfg.Color,
		"CELLPAINT_STORAGE":        &cfg.Storage.Backend,
		"CELLPAINT_STORAGE_PATH":   &cfg.Storage.Path,
		"CELLPAINT_STORAGE_KEY":    &cfg.Storage.Key,
		"CELLPAINT_LOG_LEVEL":      &cfg.Log.Level,
		"CELLPAINT_LOG_FORMAT":     &cfg.Log.Format,
		"CELLPAINT_LOG_FILE":       &cfg.Log.File,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CELLPAINT_ROWS":        &cfg.Rows,
		"CELLPAINT_COLS":        &cfg.Cols,
		"CELLPAINT_MAX_HISTORY": &cfg.MaxHistory,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("CELLPAINT_CONFIRMATIONS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("CELLPAINT_CONFIRMATIONS: %w", err)
		}
		cfg.Confirmations = b
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// finalize validates the merged config and fills derived values.
func (c *Config) finalize() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("storage backend %q: %w", c.Storage.Backend, storage.ErrUnknownBackend)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = dataDir()
		if c.Storage.Backend == storage.BackendSQLite {
			c.Storage.Path = filepath.Join(c.Storage.Path, "cellpaint.db")
		}
	}
	c.Storage.Path = expandHome(c.Storage.Path)
	if c.Storage.Key == "" {
		c.Storage.Key = store.DefaultStorageKey
	}

	if c.SaveDirectory != "" {
		dir := expandHome(c.SaveDirectory)
		if !filepath.IsAbs(dir) {
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}
		}
		c.SaveDirectory = dir
	}
	if c.Log.File != "" {
		c.Log.File = expandHome(c.Log.File)
	}

	c.Rows = canvas.ClampDim(c.Rows)
	c.Cols = canvas.ClampDim(c.Cols)
	if c.MaxHistory < 1 {
		c.MaxHistory = history.MaxHistory
	}
	if !(c.StrokeWidth > 0) {
		c.StrokeWidth = codec.DefaultStrokeWidth
	}
	if c.Color == "" {
		c.Color = codec.DefaultColor
	}
	palette := c.Palette[:0]
	for _, color := range c.Palette {
		if color = strings.TrimSpace(color); color != "" {
			palette = append(palette, color)
		}
	}
	if len(palette) == 0 {
		palette = append(palette, defaultPalette...)
	}
	if len(palette) > maxPalette {
		palette = palette[:maxPalette]
	}
	c.Palette = palette

	if _, err := parseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := parseLogFormatter(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// GetSavePath resolves filename inside the save directory, creating it.
func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}
