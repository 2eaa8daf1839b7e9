package render

import (
	"errors"
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// ErrEmptyPayload is returned when a QR code is requested for an empty string.
var ErrEmptyPayload = errors.New("qr payload is empty")

// QRCodeImage renders payload (usually the preview URL) as a QR code image.
func QRCodeImage(payload string, sizePx int) (image.Image, error) {
	code, err := newQRCode(payload)
	if err != nil {
		return nil, err
	}
	return code.Image(qrSize(sizePx)), nil
}

// QRCodePNG renders payload as PNG bytes, ready to be served.
func QRCodePNG(payload string, sizePx int) ([]byte, error) {
	code, err := newQRCode(payload)
	if err != nil {
		return nil, err
	}
	return code.PNG(qrSize(sizePx))
}

func newQRCode(payload string) (*qrcode.QRCode, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	return qrcode.New(payload, qrcode.Medium)
}

func qrSize(sizePx int) int {
	if sizePx <= 0 {
		return defaultQRCodeSizePx
	}
	return sizePx
}
