package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Page-level PDF tools
	PDFMergeDescription = `Combine two or more PDF documents into a single file, preserving page order.

**When to use:** Need to consolidate multiple PDFs into one document for distribution, archiving, or printing.

**Why it's useful:** Every page of every input appears in the output in the listed order, so chapter files, scanned batches, or appendices assemble deterministically.

**Examples:**
• Assemble a report: "Merge cover.pdf, body.pdf and appendix.pdf into one document"
• Consolidate scans: "Combine the three scanned contract parts into a single file"

**Best practices:** Supply at least two documents; pass per-file passwords for protected inputs.`

	PDFSplitRangeDescription = `Extract a selection of pages from a PDF using a page-range expression.

**When to use:** Need only part of a document - a chapter, an exhibit, a single page.

**Why it's useful:** Accepts comma-separated page numbers and hyphenated inclusive ranges ("1,3,5-9"), validates every token against the document's page count, and reports the exact offending token on error.

**Examples:**
• Pull a chapter: "Extract pages 12-34 from manual.pdf"
• Grab scattered pages: "Keep pages 1, 4 and 10-12 of minutes.pdf"

**Best practices:** Ranges are 1-indexed and inclusive; duplicates are collapsed and output pages stay in ascending order.`

	PDFExtractPagesDescription = `Split a PDF into one single-page document per page, bundled as a zip archive.

**When to use:** Need each page as its own file - per-page review, page-level distribution, or downstream per-page processing.

**Why it's useful:** Output files carry a stable page-number suffix, so the archive re-merges back into the original page order.

**Examples:**
• Page-by-page handoff: "Split slides.pdf into individual pages for reviewers"

**Best practices:** A one-page document has nothing to split and is rejected.`

	PDFCompressDescription = `Reduce a PDF's file size by re-encoding every page as a lossy raster image.

**When to use:** A document is too large to mail or upload and visual fidelity matters more than selectable text.

**Why it's useful:** Large embedded images and heavy vector content collapse into compact JPEG pages.

**Examples:**
• Shrink a scan: "Compress scanned-deed.pdf so it fits the 10MB upload limit"

**Best practices:** This is deliberately lossy - selectable text and vector graphics are destroyed. Keep the original.`

	PDFProtectDescription = `Encrypt a PDF with a password.

**When to use:** A document needs access control before it leaves your machine.

**Why it's useful:** Applies the password as both user and owner password so the file cannot be opened without it.

**Examples:**
• Secure a payslip: "Protect payslip.pdf with the employee's chosen password"

**Best practices:** An empty password and an already-protected input are both rejected.`

	PDFUnlockDescription = `Remove the password from a protected PDF.

**When to use:** A protected document needs to flow into tools that cannot handle encryption.

**Why it's useful:** A wrong password is reported distinctly from a corrupt file, so callers can re-prompt instead of giving up.

**Examples:**
• Open for processing: "Unlock statement.pdf with its password before merging"

**Best practices:** Requires the correct current password; there is no recovery path for a lost one.`

	PDFAddPageNumbersDescription = `Stamp formatted page numbers onto a PDF.

**When to use:** A document needs visible pagination for print, review, or legal filing.

**Why it's useful:** Supports the formats "1", "Page 1", "1 of n" and "Page 1 of n", a caller-chosen start number, any of the nine anchor positions, and an optional page subset - while "of n" always refers to the whole document.

**Examples:**
• Standard footer: "Number report.pdf bottom-center as 'Page 1 of n'"
• Skip the cover: "Number pages 2-20 of brief.pdf starting at 1"

**Best practices:** Font size, margin and position are uniform across all numbered pages in one job.`

	PDFAddWatermarkDescription = `Stamp a uniform text or image watermark across every page of a PDF.

**When to use:** Marking a document as draft, confidential, or branded.

**Why it's useful:** One style (opacity, rotation, size) applies to all pages; placement may be any of the nine anchors or a tiling mode that covers the full page in a deterministic grid.

**Examples:**
• Draft stamp: "Watermark contract.pdf with rotated 'DRAFT' text in the center"
• Brand every page: "Tile the company logo across whitepaper.pdf at 20% opacity"

**Best practices:** Provide text or an image, not neither; rotation is accounted for so marks never clip outside their margin.`

	PDFEditDescription = `Place text, images, or signatures onto specific pages of a PDF.

**When to use:** Filling a form, signing a document, or annotating specific locations.

**Why it's useful:** Placements are given in preview pixel coordinates and mapped per page through that page's own dimensions, so mixed page sizes position correctly. The original bytes are always re-applied fresh, so repeated edits never double-apply.

**Examples:**
• Sign a contract: "Place the signature image at the marked spot on page 4"
• Fill a field: "Write '2026-08-30' at the date line on page 1"

**Best practices:** State the render scale the placement coordinates were taken at; coordinates are top-left origin.`

	ImagesToPDFDescription = `Build a PDF with one page per input image.

**When to use:** Turning photos or scans into a single shareable document.

**Why it's useful:** Each page is sized exactly to its image, so nothing is cropped or letterboxed. JPEG and PNG are accepted.

**Examples:**
• Bundle receipts: "Combine the five receipt photos into one PDF"

**Best practices:** Images appear in the listed order.`

	PDFToImagesDescription = `Render every page of a PDF as a raster image, bundled as a zip archive.

**When to use:** Pages are needed as images for thumbnails, OCR, or systems that cannot read PDF.

**Examples:**
• Page previews: "Render catalog.pdf to PNG images"

**Best practices:** Choose "png" for fidelity or "jpeg" for size.`

	PDFExtractTextDescription = `Extract the selectable text content of a PDF.

**When to use:** Need the document's text for analysis, search, or conversion.

**Why it's useful:** Pages are joined with blank lines in reading order; pages without selectable text are skipped rather than failing the document.

**Examples:**
• Feed a summary: "Extract the text of thesis.pdf for analysis"

**Best practices:** Scanned image-only documents yield little or no text; render to images instead.`

	// Tabular tools
	TabularConvertDescription = `Convert tabular data between CSV, JSON, XML, and XLSX.

**When to use:** A dataset needs to move between spreadsheet, API, and archive formats.

**Why it's useful:** All conversions route through one shared row/column form: headers come from the first row or record and apply uniformly, and missing fields become empty strings instead of structural errors.

**Examples:**
• Spreadsheet to API: "Convert customers.xlsx to JSON"
• Archive to sheet: "Convert records.xml to CSV"

**Best practices:** The source format is inferred from the filename extension.`

	TabularSplitRowsDescription = `Split a tabular file into fixed-size row chunks, bundled as a zip archive.

**When to use:** A dataset is too large for a downstream import limit or needs parallel distribution.

**Why it's useful:** The header row is excluded from the count and re-attached to every chunk; concatenating the chunks in order reproduces the original rows exactly.

**Examples:**
• Import batches: "Split leads.csv into files of 500 rows each"

**Best practices:** A dataset smaller than one chunk is rejected rather than producing a single trivial file.`

	WorkbookSplitSheetsDescription = `Split a multi-sheet workbook into one single-sheet file per sheet.

**When to use:** Sheets of one workbook need to go to different recipients or systems.

**Examples:**
• Distribute regions: "Split regional-sales.xlsx into one file per region sheet"

**Best practices:** A single-sheet workbook has nothing to split and is rejected.`

	JSONToXMLDescription = `Convert a JSON document to XML, preserving its nesting.

**When to use:** A nested JSON structure must feed an XML consumer without flattening.

**Examples:**
• Feed a legacy system: "Convert order.json to XML for the ERP import"`

	XMLToJSONDescription = `Convert an XML document to JSON, preserving its nesting.

**When to use:** XML data must feed a JSON consumer; repeated sibling elements become arrays.

**Examples:**
• Modernize a feed: "Convert catalog.xml to JSON"`

	TabularToPDFDescription = `Render a CSV/XLSX file as styled tables in a landscape PDF.

**When to use:** A dataset needs a printable, human-readable presentation.

**Why it's useful:** Every sheet of a workbook renders as its own titled table. This is a presentation transform, not a round-trip - the PDF is for reading, not re-import.

**Examples:**
• Print a summary: "Render q3-figures.xlsx as a PDF for the board pack"`

	// Office tools
	PPTXToPDFDescription = `Convert a PowerPoint presentation to PDF.

**When to use:** Slides need to be viewed or archived without PowerPoint.

**Why it's useful:** Slides render in presentation order with their text and images positioned from the file's own geometry; a slide with a missing image is rendered without it rather than failing the deck.

**Examples:**
• Share read-only: "Convert pitch.pptx to PDF for the client"`

	DOCXToPDFDescription = `Convert a Word document to PDF.

**When to use:** A document needs a fixed-layout, read-only rendition.

**Examples:**
• Final rendition: "Convert offer-letter.docx to PDF"

**Best practices:** Text content is preserved; complex Word layout is approximated.`

	PDFToDOCXDescription = `Rebuild a PDF's text content as an editable Word document.

**When to use:** Text locked in a PDF needs editing.

**Examples:**
• Recover a draft: "Convert old-proposal.pdf to Word for revision"

**Best practices:** Text comes across, layout does not; image-only pages yield no text.`

	// AI-assisted tools
	PDFToPPTXDescription = `Summarize each page of a PDF into a presentation slide with a title and bullet points.

**When to use:** A written document needs to become a slide deck quickly.

**Why it's useful:** Each page's text is condensed by the configured AI model into one slide; pages without meaningful text become labeled placeholder slides instead of failing the deck.

**Examples:**
• Deck from a report: "Turn market-report.pdf into a PowerPoint outline"

**Best practices:** Requires a configured AI provider; long documents process page by page and can be cancelled between pages.`

	PDFExtractTablesDescription = `Find tables in a PDF's text and reformat them as CSV using the configured AI model.

**When to use:** A PDF contains tables that plain text extraction flattens and no deterministic parser can recover.

**Why it's useful:** Multiple tables come back as clearly separated CSV blocks; a document with no tables is reported as such rather than yielding an empty file.

**Examples:**
• Recover figures: "Extract the pricing tables from rate-card.pdf as CSV"

**Best practices:** Works from the document's selectable text; scanned documents need OCR first.`

	MSGToPDFDescription = `Convert a legacy Outlook .msg email to PDF.

**When to use:** An archived .msg file needs a readable, portable rendition.

**Why it's useful:** The binary container is decoded as best-effort text and the configured AI model extracts sender, recipients, subject, date and body. This path is explicitly best-effort: there is no deterministic parser behind it, and fidelity is not guaranteed.

**Examples:**
• Archive a thread: "Convert complaint.msg to PDF for the case file"

**Best practices:** A message the model cannot parse is reported as an extraction failure, not as an empty document.`

	PDFRemoveWatermarkDescription = `Remove watermarks from a PDF using the configured vision model.

**When to use:** A legitimately owned document carries a watermark that obstructs reading.

**Why it's useful:** Each page is rendered, cleaned by the vision model, and the document is rebuilt from the cleaned pages.

**Examples:**
• Clean a proof: "Remove the 'SAMPLE' watermark from purchased-report.pdf"

**Best practices:** Output is raster-only, like compression; the loop checks for cancellation between pages.`

	// Utility tools
	ServerInfoDescription = `Get server status, configuration, and the catalog of available tools.

**When to use:** Starting a session, troubleshooting, or discovering capabilities.

**Examples:**
• Session startup: "Check which conversions are available and the size limit"

**Best practices:** Run at the start of a session; reports whether AI-backed and browser-backed tools are available.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_merge":             PDFMergeDescription,
	"pdf_split_range":       PDFSplitRangeDescription,
	"pdf_extract_pages":     PDFExtractPagesDescription,
	"pdf_compress":          PDFCompressDescription,
	"pdf_protect":           PDFProtectDescription,
	"pdf_unlock":            PDFUnlockDescription,
	"pdf_add_page_numbers":  PDFAddPageNumbersDescription,
	"pdf_add_watermark":     PDFAddWatermarkDescription,
	"pdf_edit":              PDFEditDescription,
	"images_to_pdf":         ImagesToPDFDescription,
	"pdf_to_images":         PDFToImagesDescription,
	"pdf_extract_text":      PDFExtractTextDescription,
	"tabular_convert":       TabularConvertDescription,
	"tabular_split_rows":    TabularSplitRowsDescription,
	"workbook_split_sheets": WorkbookSplitSheetsDescription,
	"json_to_xml":           JSONToXMLDescription,
	"xml_to_json":           XMLToJSONDescription,
	"tabular_to_pdf":        TabularToPDFDescription,
	"pptx_to_pdf":           PPTXToPDFDescription,
	"docx_to_pdf":           DOCXToPDFDescription,
	"pdf_to_docx":           PDFToDOCXDescription,
	"pdf_to_pptx":           PDFToPPTXDescription,
	"pdf_extract_tables":    PDFExtractTablesDescription,
	"msg_to_pdf":            MSGToPDFDescription,
	"pdf_remove_watermark":  PDFRemoveWatermarkDescription,
	"server_info":           ServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
