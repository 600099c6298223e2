package book

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in      string
		want    Binding
		wantErr bool
	}{
		{"swiss", Swiss, false},
		{"Swiss", Swiss, false},
		{"flat", Swiss, false},
		{"classic", Classic, false},
		{" split ", Classic, false},
		{"spiral", Swiss, true},
		{"", Swiss, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBinding(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBinding(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownBinding) {
				t.Errorf("error should wrap ErrUnknownBinding: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseBinding(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBindingText(t *testing.T) {
	for _, b := range []Binding{Swiss, Classic} {
		text, err := b.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Binding
		if err := back.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if back != b {
			t.Errorf("%v: text round trip gave %v", b, back)
		}
	}
	if Swiss.Toggle() != Classic || Classic.Toggle() != Swiss {
		t.Error("Toggle should swap bindings")
	}
}

func TestBindingCarrier(t *testing.T) {
	if Swiss.Carrier() != SideFront {
		t.Error("swiss block should hang on the front cover")
	}
	if Classic.Carrier() != SideBack {
		t.Error("classic block should hang on the back cover")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ffffff", color.RGBA{255, 255, 255, 255}, false},
		{"#1a2B3c", color.RGBA{0x1a, 0x2b, 0x3c, 255}, false},
		{"eee", color.RGBA{0xee, 0xee, 0xee, 255}, false},
		{"#f00", color.RGBA{255, 0, 0, 255}, false},
		{"Navy", color.RGBA{0, 0, 0x80, 255}, false},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if got := HexColor(color.RGBA{0x1a, 0x2b, 0x3c, 255}); got != "#1a2b3c" {
		t.Errorf("HexColor = %q", got)
	}
}

func TestSpecClamp(t *testing.T) {
	s := Spec{WidthMm: 10, HeightMm: 9000, SpineMm: 0, OpenRatio: 1.5}.Clamp()
	if s.WidthMm != MinWidthMm || s.HeightMm != MaxHeightMm || s.SpineMm != MinSpineMm || s.OpenRatio != 1 {
		t.Errorf("Clamp() = %+v", s)
	}
	if got := (Spec{OpenRatio: 0.347}).Clamp().OpenRatio; got < 0.3499 || got > 0.3501 {
		t.Errorf("open ratio %v not snapped to 0.35", got)
	}
	d := DefaultSpec()
	if d.Clamp() != d {
		t.Error("default spec should already be in range")
	}
}

func TestSpecSameGeometry(t *testing.T) {
	a := DefaultSpec()

	b := a
	b.OpenRatio = 0.8
	if !a.SameGeometry(b) {
		t.Error("open ratio alone should not change geometry")
	}
	if a.Equal(b) {
		t.Error("Equal should see the open ratio")
	}

	c := a
	c.Cover = image.NewRGBA(image.Rect(0, 0, 4, 4))
	if a.SameGeometry(c) {
		t.Error("a new cover image is a geometry change")
	}

	d := a
	d.Binding = Swiss
	if a.SameGeometry(d) {
		t.Error("binding is a geometry change")
	}
}

// sliceImage is an image type that cannot be compared.
type sliceImage struct {
	image.Image
	pad []byte
}

func TestNonComparableCover(t *testing.T) {
	s := DefaultSpec()
	s.Cover = sliceImage{Image: image.NewRGBA(image.Rect(0, 0, 16, 8))}

	if s.SameGeometry(s) {
		t.Error("a non-comparable cover should never match")
	}

	b := New(s)
	if _, ok := b.Spec().Cover.(*image.RGBA); !ok {
		t.Fatalf("cover stored as %T, want *image.RGBA", b.Spec().Cover)
	}
	if b.Apply(b.Spec()) {
		t.Error("the stored copy should compare equal to itself")
	}
}
