package barcode

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestGenerateProducesPNG(t *testing.T) {
	g := NewCode128Generator()

	image, err := g.Generate("SKU-KOPI-01")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(image, pngMagic) {
		t.Fatalf("output is not a PNG, first bytes %x", image[:min(8, len(image))])
	}
}

func TestGenerateRejectsEmptySKU(t *testing.T) {
	g := NewCode128Generator()

	if _, err := g.Generate(""); err == nil {
		t.Fatal("expected error for empty sku")
	}
}

func TestNoopGeneratesNothing(t *testing.T) {
	image, err := Noop{}.Generate("SKU-KOPI-01")
	if err != nil || image != nil {
		t.Fatalf("noop = (%v, %v)", image, err)
	}
}
