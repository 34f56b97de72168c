package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/disintegration/imaging"
)

const (
	// CODE128 rendering: each module is widened to this many pixels and the
	// bars are drawn at a fixed height, with a white quiet zone around the
	// symbol so scanners can lock on.
	code128ModuleScale = 2
	code128BarHeight   = 48
	code128QuietZone   = 10

	// QRSize is the logical edge length of generated QR codes in pixels.
	QRSize = 256
	// qrMarginModules is the quiet-zone width in QR modules.
	qrMarginModules = 2
)

// BarcodeRenderer renders label payloads into scannable PNG images,
// black on white.
type BarcodeRenderer interface {
	// RenderCode128 encodes the payload as a CODE128 linear barcode PNG.
	RenderCode128(payload string) ([]byte, error)

	// RenderQR encodes the payload as a QR matrix PNG with the given logical
	// edge length and a two-module quiet zone.
	RenderQR(payload string, size int) ([]byte, error)
}

// codeRenderer implements BarcodeRenderer on top of the boombuler encoders,
// with imaging handling quiet-zone padding and PNG encoding.
type codeRenderer struct{}

var barcodeRendererInstance BarcodeRenderer

// InitBarcodeRenderer initializes the barcode renderer
func InitBarcodeRenderer() BarcodeRenderer {
	barcodeRendererInstance = &codeRenderer{}
	return barcodeRendererInstance
}

// GetBarcodeRenderer returns the initialized barcode renderer instance
func GetBarcodeRenderer() BarcodeRenderer {
	return barcodeRendererInstance
}

// SetBarcodeRenderer sets the barcode renderer instance (primarily for testing)
func SetBarcodeRenderer(r BarcodeRenderer) {
	barcodeRendererInstance = r
}

// RenderCode128 encodes the payload as a CODE128 barcode PNG. An unencodable
// payload is a hard error, never a silent skip: a blank payload here means an
// upstream pipeline bug, not bad user input.
func (r *codeRenderer) RenderCode128(payload string) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("barcode payload is empty")
	}

	code, err := code128.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode CODE128 payload %q: %w", payload, err)
	}

	width := code.Bounds().Dx() * code128ModuleScale
	scaled, err := barcode.Scale(code, width, code128BarHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	return encodeOnWhite(scaled, code128QuietZone)
}

// RenderQR encodes the payload as a QR code PNG at size x size logical
// pixels with a two-module white margin.
func (r *codeRenderer) RenderQR(payload string, size int) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("qr payload is empty")
	}
	if size <= 0 {
		size = QRSize
	}

	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR payload: %w", err)
	}

	modules := code.Bounds().Dx()
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale QR code: %w", err)
	}

	module := size / modules
	if module < 1 {
		module = 1
	}
	return encodeOnWhite(scaled, qrMarginModules*module)
}

// encodeOnWhite pastes the symbol onto a white canvas with the given margin
// on every side and encodes the result as PNG.
func encodeOnWhite(symbol image.Image, margin int) ([]byte, error) {
	bounds := symbol.Bounds()
	canvas := imaging.New(bounds.Dx()+2*margin, bounds.Dy()+2*margin, color.White)
	canvas = imaging.Paste(canvas, symbol, image.Pt(margin, margin))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
