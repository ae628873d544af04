package extraction

import "strings"

const ocrPrompt = `You are an OCR engine for payment receipts and bank transfer screenshots.
Extract all text from the attached document exactly as it appears.
Preserve the original line breaks and the order of lines.
Do not summarise, translate, correct or format the text, and do not add commentary.
If the document contains no readable text, respond with an empty message.`

const fieldSystemPrompt = "You extract payment details from receipt text and respond only with a single JSON object."

// buildFieldPrompt renders the field extraction prompt: general instructions,
// per app guidance and the raw receipt text.
func buildFieldPrompt(rules *Rules, rawText string) string {
	var b strings.Builder
	b.WriteString("Extract the donation payment details from the receipt text below.\n")
	b.WriteString("The text was produced by OCR from one or more screenshots separated by lines containing ---.\n\n")

	b.WriteString("Rules:\n")
	for _, line := range rules.Instructions {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	for _, app := range rules.Apps {
		b.WriteString("\n")
		b.WriteString(app.Name)
		b.WriteString(" receipts:\n")
		for _, line := range app.Guidance {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	b.WriteString("\nRespond with a JSON object using only these keys: amount")
	for _, f := range stringFields {
		b.WriteString(", ")
		b.WriteString(f.name)
	}
	b.WriteString(".\n\nReceipt text:\n<<<\n")
	b.WriteString(rawText)
	b.WriteString("\n>>>\n")
	return b.String()
}
