// Package barcode renders code 128 SKU barcodes as PNG images for shelf
// and receipt labels.
package barcode

import (
	"bytes"
	"errors"
	"image/png"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

type Generator interface {
	Generate(sku string) ([]byte, error)
}

type Code128Generator struct {
	Width  int
	Height int
}

func NewCode128Generator() *Code128Generator {
	return &Code128Generator{Width: 300, Height: 80}
}

func (g *Code128Generator) Generate(sku string) ([]byte, error) {
	if sku == "" {
		return nil, errors.New("empty sku")
	}

	encoded, err := code128.Encode(sku)
	if err != nil {
		return nil, err
	}
	scaled, err := bc.Scale(encoded, g.Width, g.Height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Noop skips image generation entirely; products simply have no stored
// barcode. Used in tests and when label printing is not deployed.
type Noop struct{}

func (Noop) Generate(string) ([]byte, error) {
	return nil, nil
}
