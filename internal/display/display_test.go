package display

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestSceneLinesAndString(t *testing.T) {
	s := Scene{
		Name: "demo",
		Texts: []Text{
			{X: 0, Y: 0, Value: "21.3"},
			{X: 0, Y: 20, Value: "RH 40%"},
		},
	}
	if diff := cmp.Diff([]string{"21.3", "RH 40%"}, s.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if s.String() != "21.3 | RH 40%" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestRasterizeRuleAndBar(t *testing.T) {
	bounds := image.Rect(0, 0, Width, Height)
	img := Rasterize(Scene{
		Rules: []Rule{{X: 0, Y: 18, W: Width}},
		Bars:  []Bar{{X: 10, Y: 45, W: 108, H: 10, Fill: 54}},
	}, bounds)

	if img.BitAt(0, 18) != image1bit.On || img.BitAt(Width-1, 18) != image1bit.On {
		t.Error("expected the rule to span the panel")
	}
	if img.BitAt(0, 17) != image1bit.Off {
		t.Error("expected nothing above the rule")
	}

	// Filled part
	if img.BitAt(30, 50) != image1bit.On {
		t.Error("expected bar fill at x=30")
	}
	// Inside the outline, past the fill
	if img.BitAt(100, 50) != image1bit.Off {
		t.Error("expected empty bar interior at x=100")
	}
	// Outline edges
	if img.BitAt(117, 50) != image1bit.On || img.BitAt(100, 45) != image1bit.On || img.BitAt(100, 54) != image1bit.On {
		t.Error("expected bar outline")
	}
}

func TestRasterizeBarFillClamped(t *testing.T) {
	img := Rasterize(Scene{Bars: []Bar{{X: 10, Y: 10, W: 20, H: 4, Fill: 500}}}, image.Rect(0, 0, Width, Height))
	if img.BitAt(40, 12) != image1bit.Off {
		t.Error("fill must not extend past the bar width")
	}
}

func TestRasterizeTextScale(t *testing.T) {
	bounds := image.Rect(0, 0, Width, Height)
	count := func(img *image1bit.VerticalLSB) int {
		n := 0
		for y := 0; y < Height; y++ {
			for x := 0; x < Width; x++ {
				if img.BitAt(x, y) == image1bit.On {
					n++
				}
			}
		}
		return n
	}

	small := count(Rasterize(Scene{Texts: []Text{{X: 0, Y: 0, Scale: 1, Value: "88"}}}, bounds))
	large := count(Rasterize(Scene{Texts: []Text{{X: 0, Y: 0, Scale: 2, Value: "88"}}}, bounds))
	if small == 0 {
		t.Fatal("expected text pixels")
	}
	if large != 4*small {
		t.Errorf("expected scale 2 to quadruple lit pixels: %d vs %d", large, small)
	}
}

func TestLogDisplay(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := NewLog(zap.New(core))

	d.Render(Scene{Name: "measurements", Texts: []Text{{Value: "21.3"}}})
	d.Power(false)
	d.Render(Scene{Name: "measurements"})

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	if entries[0].Message != "render" || entries[0].ContextMap()["scene"] != "measurements" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Message != "power" {
		t.Errorf("expected power entry, got %q", entries[1].Message)
	}
	if entries[2].Level != zap.DebugLevel {
		t.Errorf("expected render while off at debug level, got %s", entries[2].Level)
	}
}

func TestFakeRecords(t *testing.T) {
	f := NewFake()
	f.Render(Scene{Name: "a"})
	f.Power(false)
	f.Render(Scene{Name: "b"})

	if diff := cmp.Diff([]string{"a", "b"}, f.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if f.On {
		t.Error("expected panel off")
	}
	if f.Last().Name != "b" {
		t.Errorf("Last() = %q, want b", f.Last().Name)
	}

	f.RenderError = errors.New("simulated error")
	if err := f.Render(Scene{Name: "c"}); err == nil {
		t.Error("expected render error")
	}

	f.Reset()
	if len(f.Scenes) != 0 || len(f.PowerCalls) != 0 {
		t.Error("expected empty fake after Reset")
	}
}
