package scanning

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// DefaultTesseractLanguages covers Croatian receipts with English fallbacks
var DefaultTesseractLanguages = []string{"hrv", "eng"}

// Tesseract implements the Scanner interface with a local Tesseract install
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseract creates a new Tesseract Scanner instance
func NewTesseract(languages ...string) (*Tesseract, error) {
	if len(languages) == 0 {
		languages = DefaultTesseractLanguages
	}
	return &Tesseract{
		languages:     languages,
		clientFactory: gosseract.NewClient,
	}, nil
}

// RecognizeText runs Tesseract over the receipt image
func (t *Tesseract) RecognizeText(imageData []byte, contentType string) (string, error) {
	finalImageData, err := prepareImageData(imageData, contentType)
	if err != nil {
		return "", err
	}

	// a client per call; gosseract clients are not safe for concurrent use
	c := t.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("setting languages: %w", err)
	}
	// receipts are a single column of text
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(finalImageData); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return cleanRecognizedText(text), nil
}

// Close is a no-op, clients are released after each call
func (t *Tesseract) Close() error {
	return nil
}
