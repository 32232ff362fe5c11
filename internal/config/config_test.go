package config

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	tmpDir := t.TempDir()
	return &Service{
		dir:      tmpDir,
		filePath: filepath.Join(tmpDir, "config.txt"),
		config:   getDefaultConfig(),
	}
}

func TestLoad_MissingFile(t *testing.T) {
	service := newTestService(t)

	if err := service.Load(); err != nil {
		t.Fatalf("Load with no file failed: %v", err)
	}

	cfg := service.Get()
	if cfg.Transparency != 80 {
		t.Errorf("Default transparency = %d; want 80", cfg.Transparency)
	}
	if cfg.FontFamily != "SimHei" || cfg.FontSize != 14 {
		t.Errorf("Default font = %s/%d; want SimHei/14", cfg.FontFamily, cfg.FontSize)
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	service := newTestService(t)
	service.config = &Config{
		Transparency: 55,
		WindowWidth:  1024,
		WindowHeight: 768,
		WindowX:      40,
		WindowY:      60,
		FontFamily:   "Noto Sans CJK SC",
		FontSize:     18,
		TextColor:    "#112233",
		BgColor:      "#fafafa",
	}

	if err := service.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	service2 := &Service{
		dir:      service.dir,
		filePath: service.filePath,
		config:   getDefaultConfig(),
	}
	if err := service2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := service2.Get()
	if *got != *service.config {
		t.Errorf("Round trip mismatch:\n got  %+v\n want %+v", got, service.config)
	}
}

func TestLoad_ClampsOutOfRange(t *testing.T) {
	service := newTestService(t)
	raw := "transparency=5\nwindow_width=50\nwindow_height=9999\n"
	if err := os.WriteFile(service.filePath, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	if err := service.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := service.Get()
	if cfg.Transparency != MinTransparency {
		t.Errorf("Transparency = %d; want clamped to %d", cfg.Transparency, MinTransparency)
	}
	if cfg.WindowWidth != MinWidth {
		t.Errorf("WindowWidth = %d; want clamped to %d", cfg.WindowWidth, MinWidth)
	}
	if cfg.WindowHeight != MaxHeight {
		t.Errorf("WindowHeight = %d; want clamped to %d", cfg.WindowHeight, MaxHeight)
	}
}

func TestLoad_IgnoresUnknownLines(t *testing.T) {
	service := newTestService(t)
	raw := "theme=dark\n\nnot a pair\nfont_size=20\n"
	if err := os.WriteFile(service.filePath, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	if err := service.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := service.Get().FontSize; got != 20 {
		t.Errorf("FontSize = %d; want 20", got)
	}
}

func TestLoad_MalformedValueDeletesFile(t *testing.T) {
	service := newTestService(t)
	raw := "transparency=eighty\n"
	if err := os.WriteFile(service.filePath, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	err := service.Load()
	if err == nil {
		t.Fatal("Load with malformed value should fail")
	}

	if _, statErr := os.Stat(service.filePath); !os.IsNotExist(statErr) {
		t.Error("Corrupt settings file was not deleted")
	}

	// Settings fall back to defaults so the app keeps running.
	if got := service.Get().Transparency; got != 80 {
		t.Errorf("Transparency after corrupt load = %d; want default 80", got)
	}
}

func TestSetTransparency_Clamps(t *testing.T) {
	service := newTestService(t)

	if err := service.SetTransparency(150); err != nil {
		t.Fatalf("SetTransparency failed: %v", err)
	}
	if got := service.Get().Transparency; got != MaxTransparency {
		t.Errorf("Transparency = %d; want %d", got, MaxTransparency)
	}

	if err := service.SetTransparency(10); err != nil {
		t.Fatalf("SetTransparency failed: %v", err)
	}
	if got := service.Get().Transparency; got != MinTransparency {
		t.Errorf("Transparency = %d; want %d", got, MinTransparency)
	}
}

func TestSetColors_RejectsBadHex(t *testing.T) {
	service := newTestService(t)

	if err := service.SetTextColor("red"); err == nil {
		t.Error("SetTextColor should reject non-hex value")
	}
	if err := service.SetBgColor("#12"); err == nil {
		t.Error("SetBgColor should reject short hex value")
	}
	if err := service.SetBgColor("#A1B2C3"); err != nil {
		t.Errorf("SetBgColor rejected valid hex: %v", err)
	}
	if got := service.Get().BgColor; got != "#a1b2c3" {
		t.Errorf("BgColor = %s; want normalized #a1b2c3", got)
	}
}
