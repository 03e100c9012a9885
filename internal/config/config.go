package config

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// AppName names the config directory and the binary
const AppName = "kartoza-pg-geom"

// Config represents the application configuration
type Config struct {
	ActiveService string                  `json:"active_service"`
	CachedColumns map[string]*ColumnCache `json:"cached_columns"`
	History       []HistoryEntry          `json:"history"`
	Settings      Settings                `json:"settings"`
}

// Settings contains user preferences
type Settings struct {
	DefaultSRID       int    `json:"default_srid"`
	RowLimit          int    `json:"row_limit"`
	PreviewWidth      int    `json:"preview_width"`
	PreviewHeight     int    `json:"preview_height"`
	StartInSQLMode    bool   `json:"start_in_sql_mode"`
	LogLevel          string `json:"log_level"`
	LogConsole        bool   `json:"log_console"`
	MaxHistorySize    int    `json:"max_history_size"`
	ColumnCacheTTLMin int    `json:"column_cache_ttl_min"`
}

// ColumnCache holds the geometric columns last discovered for a service
type ColumnCache struct {
	ServiceName string       `json:"service_name"`
	Columns     []ColumnInfo `json:"columns"`
	CachedAt    time.Time    `json:"cached_at"`
}

// ColumnInfo describes one geometry or geography column
type ColumnInfo struct {
	Schema   string `json:"schema"`
	Table    string `json:"table"`
	Column   string `json:"column"`
	DataType string `json:"data_type"`
	GeomType string `json:"geom_type,omitempty"`
	SRID     int    `json:"srid,omitempty"`
}

// HistoryEntry is a geometry value committed from the editor
type HistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Input          string    `json:"input"`
	Mode           string    `json:"mode"`
	WKT            string    `json:"wkt,omitempty"`
	PreviewImageID string    `json:"preview_image_id,omitempty"` // Filename of cached PNG image
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		ActiveService: "",
		CachedColumns: make(map[string]*ColumnCache),
		History:       []HistoryEntry{},
		Settings: Settings{
			DefaultSRID:       4326,
			RowLimit:          50,
			PreviewWidth:      400,
			PreviewHeight:     300,
			StartInSQLMode:    false,
			LogLevel:          "warn",
			LogConsole:        true,
			MaxHistorySize:    100,
			ColumnCacheTTLMin: 1440, // 24 hours
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	return configDir()
}

var configDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load loads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal over the defaults so settings added later keep a value
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.CachedColumns == nil {
		cfg.CachedColumns = make(map[string]*ColumnCache)
	}

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AddToHistory records a committed value, newest first
func (c *Config) AddToHistory(entry HistoryEntry) {
	c.History = append([]HistoryEntry{entry}, c.History...)

	if c.Settings.MaxHistorySize > 0 && len(c.History) > c.Settings.MaxHistorySize {
		c.History = c.History[:c.Settings.MaxHistorySize]
	}
}

// CacheColumns stores the columns discovered for serviceName
func (c *Config) CacheColumns(serviceName string, columns []ColumnInfo) {
	if c.CachedColumns == nil {
		c.CachedColumns = make(map[string]*ColumnCache)
	}
	c.CachedColumns[serviceName] = &ColumnCache{
		ServiceName: serviceName,
		Columns:     columns,
		CachedAt:    time.Now(),
	}
}

// IsColumnCacheValid reports whether serviceName has a cache younger than the TTL
func (c *Config) IsColumnCacheValid(serviceName string) bool {
	cache, exists := c.CachedColumns[serviceName]
	if !exists {
		return false
	}
	ttl := time.Duration(c.Settings.ColumnCacheTTLMin) * time.Minute
	return time.Since(cache.CachedAt) < ttl
}

// PreviewImagesDir returns the directory path for cached preview images
func PreviewImagesDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "preview_images"), nil
}

// SavePreviewImage saves a base64-encoded PNG image to the cache folder.
// Returns the image ID (filename without extension).
func SavePreviewImage(base64Data string) (string, error) {
	if base64Data == "" {
		return "", nil
	}

	pngData, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", err
	}

	// First 8 bytes of the content hash
	hash := sha256.Sum256(pngData)
	imageID := hex.EncodeToString(hash[:8])

	dir, err := PreviewImagesDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, imageID+".png"), pngData, 0644); err != nil {
		return "", err
	}

	return imageID, nil
}

// LoadPreviewImage loads a cached image and returns base64-encoded data
func LoadPreviewImage(imageID string) (string, error) {
	if imageID == "" {
		return "", nil
	}

	path, err := PreviewImagePath(imageID)
	if err != nil {
		return "", err
	}

	pngData, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(pngData), nil
}

// PreviewImagePath returns the full path to a cached image file
func PreviewImagePath(imageID string) (string, error) {
	if imageID == "" {
		return "", nil
	}

	dir, err := PreviewImagesDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, imageID+".png"), nil
}
