package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Clamp bounds for numeric settings.
const (
	MinTransparency = 30
	MaxTransparency = 100
	MinWidth        = 300
	MaxWidth        = 2000
	MinHeight       = 200
	MaxHeight       = 1500
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config holds all persisted reader settings.
type Config struct {
	Transparency int    `json:"transparency"` // background alpha as a percentage
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	WindowX      int    `json:"window_x"`
	WindowY      int    `json:"window_y"`
	FontFamily   string `json:"font"`
	FontSize     int    `json:"font_size"`
	TextColor    string `json:"text_color"` // #rrggbb, always rendered opaque
	BgColor      string `json:"bg_color"`   // #rrggbb, alpha comes from Transparency
}

// Service manages settings persistence. The on-disk format is a flat
// newline-delimited key=value file; unknown lines are ignored on load so
// older files keep working.
type Service struct {
	config   *Config
	dir      string
	filePath string
}

// New creates a config service rooted at ~/.reader-overlay. The settings
// file is not read yet; call Load once the caller can report errors.
func New() (*Service, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".reader-overlay")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &Service{
		dir:      dir,
		filePath: filepath.Join(dir, "config.txt"),
		config:   getDefaultConfig(),
	}, nil
}

// getDefaultConfig returns the default configuration.
func getDefaultConfig() *Config {
	return &Config{
		Transparency: 80,
		WindowWidth:  800,
		WindowHeight: 600,
		WindowX:      100,
		WindowY:      100,
		FontFamily:   "SimHei",
		FontSize:     14,
		TextColor:    "#000000",
		BgColor:      "#ffffff",
	}
}

// Get returns the current configuration.
func (s *Service) Get() *Config {
	return s.config
}

// Dir returns the directory holding all app data files.
func (s *Service) Dir() string {
	return s.dir
}

// Path returns the full path to the settings file.
func (s *Service) Path() string {
	return s.filePath
}

// Load reads the settings file if it exists. A malformed value resets the
// service to defaults and deletes the file so the next run starts clean; the
// returned error describes what was wrong.
func (s *Service) Load() error {
	f, err := os.Open(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	defer f.Close()

	cfg := getDefaultConfig()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if err := applyLine(cfg, line); err != nil {
			s.config = getDefaultConfig()
			os.Remove(s.filePath)
			return fmt.Errorf("corrupt settings file removed: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	cfg.clamp()
	s.config = cfg
	return nil
}

// applyLine applies one key=value line to cfg. Lines with no known prefix
// are skipped.
func applyLine(cfg *Config, line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return nil
	}

	switch key {
	case "transparency":
		return setInt(&cfg.Transparency, key, value)
	case "window_width":
		return setInt(&cfg.WindowWidth, key, value)
	case "window_height":
		return setInt(&cfg.WindowHeight, key, value)
	case "window_x":
		return setInt(&cfg.WindowX, key, value)
	case "window_y":
		return setInt(&cfg.WindowY, key, value)
	case "font":
		cfg.FontFamily = value
	case "font_size":
		return setInt(&cfg.FontSize, key, value)
	case "text_color":
		return setColor(&cfg.TextColor, key, value)
	case "bg_color":
		return setColor(&cfg.BgColor, key, value)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid %s value %q", key, value)
	}
	*dst = n
	return nil
}

func setColor(dst *string, key, value string) error {
	if !hexColorRe.MatchString(value) {
		return fmt.Errorf("invalid %s value %q", key, value)
	}
	*dst = strings.ToLower(value)
	return nil
}

// clamp pulls numeric settings back into their valid ranges.
func (c *Config) clamp() {
	c.Transparency = clampInt(c.Transparency, MinTransparency, MaxTransparency)
	c.WindowWidth = clampInt(c.WindowWidth, MinWidth, MaxWidth)
	c.WindowHeight = clampInt(c.WindowHeight, MinHeight, MaxHeight)
	if c.FontSize < 6 {
		c.FontSize = 6
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Save writes every setting as a key=value line.
func (s *Service) Save() error {
	c := s.config
	var b strings.Builder
	fmt.Fprintf(&b, "transparency=%d\n", c.Transparency)
	fmt.Fprintf(&b, "window_width=%d\n", c.WindowWidth)
	fmt.Fprintf(&b, "window_height=%d\n", c.WindowHeight)
	fmt.Fprintf(&b, "window_x=%d\n", c.WindowX)
	fmt.Fprintf(&b, "window_y=%d\n", c.WindowY)
	fmt.Fprintf(&b, "font=%s\n", c.FontFamily)
	fmt.Fprintf(&b, "font_size=%d\n", c.FontSize)
	fmt.Fprintf(&b, "text_color=%s\n", c.TextColor)
	fmt.Fprintf(&b, "bg_color=%s\n", c.BgColor)

	return os.WriteFile(s.filePath, []byte(b.String()), 0644)
}

// SetTransparency updates the background alpha percentage and saves.
func (s *Service) SetTransparency(value int) error {
	s.config.Transparency = clampInt(value, MinTransparency, MaxTransparency)
	return s.Save()
}

// SetGeometry updates window size and position and saves.
func (s *Service) SetGeometry(width, height, x, y int) error {
	s.config.WindowWidth = clampInt(width, MinWidth, MaxWidth)
	s.config.WindowHeight = clampInt(height, MinHeight, MaxHeight)
	s.config.WindowX = x
	s.config.WindowY = y
	return s.Save()
}

// SetFont updates the font descriptor and saves.
func (s *Service) SetFont(family string, size int) error {
	if family != "" {
		s.config.FontFamily = family
	}
	if size >= 6 {
		s.config.FontSize = size
	}
	return s.Save()
}

// SetTextColor updates the text color and saves.
func (s *Service) SetTextColor(hex string) error {
	if !hexColorRe.MatchString(hex) {
		return fmt.Errorf("invalid text color %q", hex)
	}
	s.config.TextColor = strings.ToLower(hex)
	return s.Save()
}

// SetBgColor updates the background color and saves.
func (s *Service) SetBgColor(hex string) error {
	if !hexColorRe.MatchString(hex) {
		return fmt.Errorf("invalid background color %q", hex)
	}
	s.config.BgColor = strings.ToLower(hex)
	return s.Save()
}
