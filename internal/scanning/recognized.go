package scanning

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// transcribePrompt is shared by the LLM backends. They are used as plain OCR:
// the itemizer depends on the receipt's own line breaks, so the model must
// not reformat anything.
const transcribePrompt = `You are an OCR engine. Transcribe all text printed on this receipt exactly as it appears.

Rules:
- Output one printed line per line of text, top to bottom, in the original order
- Keep the original spelling, capitalization, diacritics (Č, Ć, Ž, Đ, Š) and punctuation
- Keep prices exactly as printed, including the decimal point (e.g. 2.50)
- Put item names and prices on separate lines when they are in separate columns
- Do not translate, summarize, correct or add anything
- Do not use markdown code blocks
- Output only the transcribed text`

// cleanRecognizedText strips a markdown code fence an LLM may wrap its
// answer in and normalizes the text to NFC so decomposed diacritics (C +
// combining caron) compare equal to their precomposed form. Everything
// inside the fence, or the whole text when there is none, is kept as is.
func cleanRecognizedText(text string) string {
	fenced := strings.TrimSpace(text)
	if len(fenced) >= 6 && strings.HasPrefix(fenced, "```") && strings.HasSuffix(fenced, "```") {
		inner := strings.TrimSuffix(fenced, "```")
		// drop the opening fence together with its language tag
		if i := strings.IndexByte(inner, '\n'); i >= 0 {
			inner = inner[i+1:]
		} else {
			inner = strings.TrimPrefix(inner, "```")
		}
		// and the line break before the closing fence
		inner = strings.TrimSuffix(inner, "\n")
		text = strings.TrimSuffix(inner, "\r")
	}

	return norm.NFC.String(text)
}
