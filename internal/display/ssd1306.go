package display

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// SSD1306 draws scenes on a 128x64 SSD1306 OLED over I2C.
type SSD1306 struct {
	bus   i2c.BusCloser
	dev   *ssd1306.Dev
	frame *image1bit.VerticalLSB
	on    bool
}

// NewSSD1306 opens the named I2C bus ("" for the first one) and initialises the panel.
func NewSSD1306(busName string) (*SSD1306, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = Width
	opts.H = Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	return &SSD1306{
		bus:   bus,
		dev:   dev,
		frame: image1bit.NewVerticalLSB(dev.Bounds()),
		on:    true,
	}, nil
}

// Render draws the scene into the frame buffer and pushes it to the panel
// unless the panel is powered off.
func (d *SSD1306) Render(scene Scene) error {
	d.frame = Rasterize(scene, d.dev.Bounds())
	if !d.on {
		return nil
	}
	return d.flush()
}

// Power switches the panel. Powering on redraws the last frame.
func (d *SSD1306) Power(on bool) error {
	if on == d.on {
		return nil
	}
	d.on = on
	if !on {
		if err := d.dev.Halt(); err != nil {
			return fmt.Errorf("display off: %w", err)
		}
		return nil
	}
	// Any command after Halt switches the panel back on; Draw skips
	// unchanged pages and may send none.
	if err := d.dev.Invert(false); err != nil {
		return fmt.Errorf("display on: %w", err)
	}
	return d.flush()
}

// Close blanks and halts the panel and releases the bus.
func (d *SSD1306) Close() error {
	var errs []error
	d.frame = image1bit.NewVerticalLSB(d.dev.Bounds())
	if err := d.flush(); err != nil {
		errs = append(errs, err)
	}
	if err := d.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt display: %w", err))
	}
	if err := d.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	return errors.Join(errs...)
}

func (d *SSD1306) flush() error {
	if err := d.dev.Draw(d.dev.Bounds(), d.frame, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Rasterize draws the scene into a fresh 1-bit frame of the given bounds.
func Rasterize(scene Scene, bounds image.Rectangle) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(bounds)
	on := image.NewUniform(image1bit.On)

	for _, r := range scene.Rules {
		draw.Draw(img, image.Rect(r.X, r.Y, r.X+r.W, r.Y+1), on, image.Point{}, draw.Src)
	}

	for _, b := range scene.Bars {
		outline := image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
		drawOutline(img, outline)
		fill := min(max(b.Fill, 0), b.W)
		draw.Draw(img, image.Rect(b.X, b.Y, b.X+fill, b.Y+b.H), on, image.Point{}, draw.Src)
	}

	for _, t := range scene.Texts {
		drawText(img, t)
	}
	return img
}

func drawOutline(img draw.Image, r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, image1bit.On)
		img.Set(x, r.Max.Y-1, image1bit.On)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, image1bit.On)
		img.Set(r.Max.X-1, y, image1bit.On)
	}
}

// drawText renders t with the 7x13 bitmap font. Scaled text is drawn at
// native size first and enlarged with nearest-neighbour sampling.
func drawText(dst draw.Image, t Text) {
	face := basicfont.Face7x13
	scale := max(t.Scale, 1)

	w := font.MeasureString(face, t.Value).Ceil()
	h := face.Height
	if w == 0 {
		return
	}

	src := image1bit.NewVerticalLSB(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(image1bit.On),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(t.Value)

	target := image.Rect(t.X, t.Y, t.X+w*scale, t.Y+h*scale)
	draw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), draw.Src, nil)
}
