package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // the vision model may reply with either format
	"strings"
	"unicode"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/office"
)

// Failure sentinels the prompts instruct the model to emit. They are
// matched case-insensitively on the trimmed response.
const (
	sentinelParsingFailed = "ERROR: PARSING_FAILED"
	sentinelNoTables      = "NO_TABLES_FOUND"
)

// msgExcerptLimit bounds how much of a raw .msg file is sent to the
// model, keeping prompts inside typical token limits.
const msgExcerptLimit = 8000

const outlookPrompt = `The following text is a raw string extracted from a .msg Outlook email file. It contains a lot of binary noise and control characters. Your task is to intelligently parse this raw data to find and extract key email information: sender (From), recipient(s) (To, Cc), subject, date, and the main email body.
Format the extracted information into a clean, well-structured HTML document. Use simple HTML tags like <h2> for the subject, <p> for the body, and a simple div or table for the header information (From, To, Date).
If you cannot find any meaningful email content, respond with the exact string "ERROR: PARSING_FAILED". Do not add any extra text or explanations outside the generated HTML or the error message.

Raw Text:
---
%s
---`

// ExtractOutlookMessage turns the raw bytes of a binary .msg file into
// an HTML rendition of the email. The bytes go to the model as lossy
// UTF-8 text, so the result is best-effort by construction.
func ExtractOutlookMessage(ctx context.Context, c Client, raw []byte) (string, error) {
	const op = "ai.ExtractOutlookMessage"

	text := sanitizeRaw(raw)
	if len(text) > msgExcerptLimit {
		text = text[:msgExcerptLimit]
	}

	resp, err := c.Complete(ctx, fmt.Sprintf(outlookPrompt, text))
	if err != nil {
		return "", err
	}
	if isSentinel(resp, sentinelParsingFailed) {
		return "", docerr.Newf(docerr.KindExtractionFailed, op,
			"the message could not be parsed, it may be corrupt or in an unsupported format")
	}
	return resp, nil
}

const tablesPrompt = `Analyze the following text extracted from a PDF document and identify any tables. Convert each identified table into a CSV (Comma-Separated Values) format. Ensure that commas within a cell are handled correctly, for instance by enclosing the cell content in double quotes. Each table should be clearly separated. If there are multiple tables, you can add a header like "--- TABLE 1 ---" before each CSV block. If no tables are found, respond with the exact message: "NO_TABLES_FOUND". Do not add any extra explanations or introductory text, only the CSV data or the 'NO_TABLES_FOUND' message.

---START OF EXTRACTED TEXT---

%s

---END OF EXTRACTED TEXT---`

// ExtractTables asks the model to find tables in extracted PDF text
// and returns them as CSV blocks. A document without tables is an
// ExtractionFailed error, distinct from transport failures.
func ExtractTables(ctx context.Context, c Client, fullText string) (string, error) {
	const op = "ai.ExtractTables"

	if strings.TrimSpace(fullText) == "" {
		return "", docerr.Newf(docerr.KindExtractionFailed, op, "the document has no extractable text")
	}

	resp, err := c.Complete(ctx, fmt.Sprintf(tablesPrompt, fullText))
	if err != nil {
		return "", err
	}
	if isSentinel(resp, sentinelNoTables) {
		return "", docerr.Newf(docerr.KindExtractionFailed, op, "no tables were found in the document")
	}
	return resp, nil
}

const slidePrompt = `Your task is to act as a presentation assistant. I will provide you with the text content of a single page from a PDF document. Your job is to summarize this text into a concise slide title and a few key bullet points. The output must be in a clean JSON format. The JSON object should have two properties: a "title" (string) and "content" (an array of strings, where each string is a bullet point). If the page contains very little text or no meaningful content to summarize (e.g., it's just an image or a diagram), return a title like "Visual Content from Page %d" and an empty content array. Do not add any extra text or explanations or code fences (like ` + "```json" + `) outside of the JSON structure. Here is the text:

---
%s
---`

// SummarizeSlide condenses one page's text into a slide. A response
// that is not valid JSON falls back to a visual-content slide instead
// of failing, so one bad page never sinks a whole deck.
func SummarizeSlide(ctx context.Context, c Client, pageNum int, pageText string) (office.SlideContent, error) {
	resp, err := c.Complete(ctx, fmt.Sprintf(slidePrompt, pageNum, pageText))
	if err != nil {
		return office.SlideContent{}, err
	}

	var parsed struct {
		Title   string   `json:"title"`
		Content []string `json:"content"`
	}
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil || parsed.Title == "" {
		return office.SlideContent{Title: fmt.Sprintf("Page %d - Visual Content", pageNum)}, nil
	}
	return office.SlideContent{Title: parsed.Title, Bullets: parsed.Content}, nil
}

// SummarizePages runs SummarizeSlide over every page, checking the
// context between iterations so a long deck can be cancelled cleanly.
func SummarizePages(ctx context.Context, c Client, pageTexts []string) ([]office.SlideContent, error) {
	slides := make([]office.SlideContent, 0, len(pageTexts))
	for i, text := range pageTexts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slide, err := SummarizeSlide(ctx, c, i+1, text)
		if err != nil {
			return nil, err
		}
		slides = append(slides, slide)
	}
	return slides, nil
}

const cleanWatermarkPrompt = `Please remove any and all watermarks (text or image) from this document page. The watermark might be faint or prominent. Return only the cleaned page content without the watermark, as a single base64-encoded JPEG image with no surrounding text.`

// CleanWatermark sends a page raster to the vision model and decodes
// the cleaned page it returns. Models that cannot produce image output
// yield an ExtractionFailed error.
func CleanWatermark(ctx context.Context, c Client, pageJPEG []byte) ([]byte, error) {
	const op = "ai.CleanWatermark"

	resp, err := c.CompleteVision(ctx, cleanWatermarkPrompt, pageJPEG, "image/jpeg")
	if err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(resp)
	if i := strings.Index(cleaned, "base64,"); i >= 0 {
		cleaned = cleaned[i+len("base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil || len(raw) == 0 {
		return nil, docerr.Newf(docerr.KindExtractionFailed, op,
			"the model did not return a cleaned page image")
	}

	// Normalize the reply to JPEG. A payload that decodes from base64
	// but is not a readable image is still a model failure.
	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, docerr.Newf(docerr.KindExtractionFailed, op,
			"the model returned an unreadable page image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: 95}); err != nil {
		return nil, docerr.New(docerr.KindExtractionFailed, op, err)
	}
	return buf.Bytes(), nil
}

func isSentinel(resp, sentinel string) bool {
	return strings.EqualFold(strings.TrimSpace(resp), sentinel)
}

// sanitizeRaw decodes bytes as lossy UTF-8 and drops NUL and other
// control characters that upset transport encodings.
func sanitizeRaw(raw []byte) string {
	return strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar {
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, string(raw))
}
