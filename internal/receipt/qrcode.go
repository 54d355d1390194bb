// Package receipt renders order tracking QR codes.
package receipt

import (
	"errors"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the QR code edge in pixels
const DefaultSize = 256

// ErrEmptyOrderID is returned by Generate for an empty id
var ErrEmptyOrderID = errors.New("order id is required")

// Generator encodes {BaseURL}/orders/{id} as a PNG QR code
type Generator struct {
	BaseURL string
	Size    int
}

// NewGenerator encodes links under baseURL at DefaultSize
func NewGenerator(baseURL string) Generator {
	return Generator{BaseURL: strings.TrimRight(baseURL, "/"), Size: DefaultSize}
}

// TrackingURL is the link encoded for orderID
func (g Generator) TrackingURL(orderID string) string {
	return g.BaseURL + "/orders/" + url.PathEscape(orderID)
}

// Generate returns the PNG QR code of the order tracking link
func (g Generator) Generate(orderID string) ([]byte, error) {
	if orderID == "" {
		return nil, ErrEmptyOrderID
	}
	size := g.Size
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(g.TrackingURL(orderID), qrcode.Medium, size)
}
