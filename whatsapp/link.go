// Package whatsapp builds the off-platform hand-off: a deep link carrying
// the order text, opened directly on touch devices or rendered as a
// scannable QR code everywhere else.
package whatsapp

import (
	"fmt"
	"net/url"
	"regexp"
)

var nonDigits = regexp.MustCompile(`\D`)

// Link builds the send deep link for a business phone and message text.
// The phone keeps only its E.164 digits; the text is URL-encoded.
func Link(phone, text string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(text))
}

// HandOff is everything a client needs to finish the checkout off-platform.
type HandOff struct {
	// URL is the deep link; touch-primary clients navigate to it directly.
	URL string `json:"url"`
	// QRImageURL points at a locally generated QR PNG for the same link.
	QRImageURL string `json:"qrImageUrl,omitempty"`
	// QRFallbackURL points at the hosted code generator, used when local
	// generation failed.
	QRFallbackURL string `json:"qrFallbackUrl"`
}
