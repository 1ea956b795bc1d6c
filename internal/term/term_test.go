package term

import (
	"bytes"
	"testing"

	"github.com/backmassage/gltfastc/internal/config"
)

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	Configure(config.ColorAlways, &buf)
	if !Enabled() || Red == "" || Magenta == "" {
		t.Error("ColorAlways should enable colors")
	}

	Configure(config.ColorNever, &buf)
	if Enabled() || Red != "" || NC != "" {
		t.Error("ColorNever should clear every color")
	}
}

func TestConfigure_AutoNeedsTerminal(t *testing.T) {
	Configure(config.ColorAuto, &bytes.Buffer{})
	if Enabled() {
		t.Error("auto mode should not color a buffer")
	}
}

func TestConfigure_AutoRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	Configure(config.ColorAuto, nil)
	if Enabled() {
		t.Error("NO_COLOR should disable colors in auto mode")
	}
}

func TestPaint(t *testing.T) {
	Configure(config.ColorNever, nil)
	if got := Paint(Green, "ok"); got != "ok" {
		t.Errorf("Paint without colors = %q", got)
	}
	Configure(config.ColorAlways, nil)
	defer Configure(config.ColorNever, nil)
	if got := Paint(Green, "ok"); got != "\033[1;92mok\033[0m" {
		t.Errorf("Paint = %q", got)
	}
}

func TestIsTerminal_Nil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) should be false")
	}
}
