package gocert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// QR code sides. They are fixed and not configurable.
const (
	QRSidePixels = 120.0
	QRSidePoints = 80.0

	qrModulePixels = 8
)

// QRPayload returns the text encoded in the QR code: the configured text, or
// the validation URL of the participant. The name is embedded literally.
func QRPayload(cfg CertificateConfig, data CertificateData, baseURL string) string {
	if text := strings.TrimSpace(cfg.QRCodeText); text != "" {
		return cfg.QRCodeText
	}
	return baseURL + "/validate/" + data.EventID + "/" + data.ParticipantName
}

// bufferCloser adapts a bytes.Buffer to the io.WriteCloser the QR writer
// requires.
type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error { return nil }

// BuildQR encodes payload as a square QR bitmap. On failure it returns a
// QR CODE placeholder together with the error.
func BuildQR(payload string) (Asset, error) {
	if payload == "" {
		return Placeholder(PlaceholderQRLabel), errors.New("build qr: empty payload")
	}
	qrc, err := qrcode.NewWith(payload, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium))
	if err != nil {
		return Placeholder(PlaceholderQRLabel), fmt.Errorf("build qr: %w", err)
	}

	buf := &bufferCloser{}
	w := standard.NewWithWriter(buf,
		standard.WithQRWidth(qrModulePixels),
		standard.WithBorderWidth(qrModulePixels*2),
		standard.WithBgColor(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		standard.WithFgColor(color.RGBA{A: 255}),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(w); err != nil {
		return Placeholder(PlaceholderQRLabel), fmt.Errorf("build qr: encode: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return Placeholder(PlaceholderQRLabel), fmt.Errorf("build qr: decode: %w", err)
	}
	return imageAsset(squared(img), ""), nil
}

// squared crops img to a centered square so it scales without distortion.
func squared(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == b.Dy() {
		return img
	}
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(image.Rect(x0, y0, x0+side, y0+side))
	}
	return img
}
