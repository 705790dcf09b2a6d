package whatsapp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

var unsafeChars = regexp.MustCompile(`[^\w\d\-_\.]`)

// Generator writes QR PNGs under a public uploads directory and knows the
// hosted code-generation endpoint used as a fallback.
type Generator struct {
	UploadDir     string
	PublicBaseURL string
	ServiceURL    string // e.g. https://api.qrserver.com/v1/create-qr-code/
}

// ForLink produces the full hand-off bundle for a deep link. Local QR
// generation failing is not fatal; the hosted fallback still works.
func (g *Generator) ForLink(link, orderID string) HandOff {
	h := HandOff{
		URL:           link,
		QRFallbackURL: g.ExternalURL(link),
	}
	if imageURL, err := g.writePNG(link, orderID); err == nil {
		h.QRImageURL = imageURL
	}
	return h
}

// ExternalURL builds the hosted generator URL for a link.
func (g *Generator) ExternalURL(link string) string {
	return fmt.Sprintf("%s?size=256x256&data=%s", g.ServiceURL, url.QueryEscape(link))
}

// writePNG encodes the link as a 256px PNG with a safe, timestamped
// filename and returns its public URL.
func (g *Generator) writePNG(link, orderID string) (string, error) {
	if g.UploadDir == "" {
		return "", fmt.Errorf("whatsapp: no upload dir configured")
	}
	if err := os.MkdirAll(g.UploadDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("whatsapp: create qr folder: %w", err)
	}

	cleanName := unsafeChars.ReplaceAllString(orderID, "_")
	filename := fmt.Sprintf("%d_%s.png", time.Now().Unix(), cleanName)
	savePath := filepath.Join(g.UploadDir, filename)

	if err := qrcode.WriteFile(link, qrcode.Medium, 256, savePath); err != nil {
		return "", fmt.Errorf("whatsapp: encode qr: %w", err)
	}

	return fmt.Sprintf("%s/qrfiles/%s", g.PublicBaseURL, filename), nil
}
