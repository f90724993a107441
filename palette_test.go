package bmpio

import "testing"

func TestPaletteSize(t *testing.T) {
	tests := []struct {
		bpp  uint16
		want int
	}{
		{1, 2},
		{4, 16},
		{8, 256},
		{16, 0},
		{24, 0},
		{32, 0},
	}
	for _, tc := range tests {
		if got := paletteSize(tc.bpp); got != tc.want {
			t.Errorf("paletteSize(%d) = %d, want %d", tc.bpp, got, tc.want)
		}
	}
}

func TestReadPaletteWireOrder(t *testing.T) {
	// Two entries: pure blue, pure red. Wire order is B,G,R,reserved.
	data := []byte{
		0xFF, 0x00, 0x00, 0x00,
		0x00, 0x00, 0xFF, 0x00,
	}
	pal := readPalette(data)
	if len(pal) != 2 {
		t.Fatalf("entries: got %d, want 2", len(pal))
	}
	if pal[0] != Blue {
		t.Errorf("entry 0: got %+v, want blue", pal[0])
	}
	if pal[1] != Red {
		t.Errorf("entry 1: got %+v, want red", pal[1])
	}
}

// A region whose length is not a multiple of 4 yields only the complete
// entries.
func TestReadPalettePartialEntry(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x00, 0xAA, 0xBB}
	if pal := readPalette(data); len(pal) != 1 {
		t.Errorf("entries: got %d, want 1", len(pal))
	}
}

func TestPaletteAppendToRoundTrip(t *testing.T) {
	in := Palette{Black, Red, RGB(0x12, 0x34, 0x56)}
	out := readPalette(in.appendTo(nil))
	if len(out) != len(in) {
		t.Fatalf("entries: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestNearestIndex(t *testing.T) {
	pal := Palette{Black, White, Red}
	tests := []struct {
		px   Pixel
		want int
	}{
		{Black, 0},
		{White, 1},
		{Red, 2},
		{RGB(0x10, 0x10, 0x10), 0},
		{RGB(0xF0, 0xF0, 0xF0), 1},
		{RGB(0xE0, 0x20, 0x20), 2},
		// Alpha never participates in the distance.
		{RGBA(0xFF, 0x00, 0x00, 0x00), 2},
	}
	for _, tc := range tests {
		if got := pal.NearestIndex(tc.px); got != tc.want {
			t.Errorf("NearestIndex(%+v) = %d, want %d", tc.px, got, tc.want)
		}
	}
}

// Equidistant candidates resolve to the lowest index.
func TestNearestIndexTieBreak(t *testing.T) {
	pal := Palette{RGB(0x00, 0x00, 0x00), RGB(0x02, 0x00, 0x00)}
	if got := pal.NearestIndex(RGB(0x01, 0x00, 0x00)); got != 0 {
		t.Errorf("tie: got %d, want 0", got)
	}
}

func TestNearestIndexEmpty(t *testing.T) {
	if got := Palette(nil).NearestIndex(Black); got != -1 {
		t.Errorf("empty palette: got %d, want -1", got)
	}
}

func TestDefaultPalette(t *testing.T) {
	if pal := defaultPalette(1); len(pal) != 2 || pal[0] != Black || pal[1] != White {
		t.Errorf("1-bit: got %v", pal)
	}
	if pal := defaultPalette(4); len(pal) != 16 || pal[15] != White {
		t.Errorf("4-bit: got %d entries, last %+v", len(pal), pal[len(pal)-1])
	}
	pal := defaultPalette(8)
	if len(pal) != 256 {
		t.Fatalf("8-bit: got %d entries, want 256", len(pal))
	}
	if pal[0] != Black || pal[255] != White || pal[0x80] != RGB(0x80, 0x80, 0x80) {
		t.Errorf("8-bit ramp: got %+v, %+v, %+v", pal[0], pal[0x80], pal[255])
	}
	if defaultPalette(24) != nil {
		t.Error("24-bit: expected nil palette")
	}
}
