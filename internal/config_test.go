package internal

import (
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 8080}
	if cfg.Address() != ":8080" {
		t.Errorf("address = %q", cfg.Address())
	}
}

func TestArchiveConfig_Extension(t *testing.T) {
	cases := map[string]bool{
		".xml": true,
		".tei": true,
		"xml":  false,
		".":    false,
		"":     false,
		"../x": false,
	}
	for ext, ok := range cases {
		cfg := NewDefaultConfig().Archive
		cfg.Extension = ext
		err := cfg.Validate()
		if ok && err != nil {
			t.Errorf("extension %q should pass: %v", ext, err)
		}
		if !ok && err == nil {
			t.Errorf("extension %q should fail", ext)
		}
	}
}

func TestArchiveConfig_RequiredPaths(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Archive.Stylesheet = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing stylesheet should fail validation")
	}

	cfg = NewDefaultConfig()
	cfg.Archive.Documents = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing documents dir should fail validation")
	}
}

func TestArchiveConfig_ScanWorkers(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Archive.ScanWorkers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero workers should fail validation")
	}
}

func TestSiteConfig_TitleRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Site.Title = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty site title should fail validation")
	}
}
