package scanning

// Scanner turns a receipt image into recognized text
type Scanner interface {
	// RecognizeText runs text recognition over a receipt image or PDF and
	// returns the recognized text, one printed line per text line
	RecognizeText(imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
