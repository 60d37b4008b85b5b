package receipt

import (
	"time"

	"github.com/zombor/receipt-table/internal/itemize"
)

// Receipt is an uploaded receipt image with its recognized text and the
// itemized table built from it
type Receipt struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
	Text        string         `json:"text"`     // raw OCR text, verbatim
	Boundary    string         `json:"boundary"` // price boundary the table was built with
	Table       *itemize.Table `json:"table"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
