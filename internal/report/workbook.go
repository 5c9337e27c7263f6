// Package report compiles extracted records into a multi-sheet xlsx
// workbook with embedded images and hyperlinks.
package report

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/scoutloop/listingscout/internal/schema"
)

// TotalSheetName is the aggregate sheet receiving every record of the run.
const TotalSheetName = "All Keywords"

// imageColWidth is the forced width of the embedded-image column.
const imageColWidth = 100.0 / 6

// maxColWidth caps fitted column widths so a long title cannot blow up the
// layout.
const maxColWidth = 80.0

// PromptFunc blocks until the operator acknowledges a message. Used to gate
// save retries when the report file is locked by another process.
type PromptFunc func(message string)

// StdinPrompt writes the message to stderr and waits for Enter.
func StdinPrompt(message string) {
	fmt.Fprintln(os.Stderr, message)
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

// Workbook owns the report file, its sheets, and their row counters.
type Workbook struct {
	file      *excelize.File
	path      string
	logger    *slog.Logger
	sheets    map[string]*Sheet
	total     *Sheet
	prompt    PromptFunc
	rowHeight float64

	headerStyle     int
	hyperlinkStyle  int
	currencyStyle   int
	unverifiedStyle int
}

// Sheet is the handle for one worksheet. It owns the sheet's next-row
// counter; row 0 is reserved for headers, so the counter starts at 1.
type Sheet struct {
	wb     *Workbook
	name   string
	next   int
	widths []float64
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithPrompt overrides the save-retry acknowledgment prompt.
func WithPrompt(p PromptFunc) Option {
	return func(wb *Workbook) { wb.prompt = p }
}

// WithRowHeight overrides the data-row display height.
func WithRowHeight(h float64) Option {
	return func(wb *Workbook) { wb.rowHeight = h }
}

// NewWorkbook creates the report file handle and the aggregate sheet.
func NewWorkbook(name, outputDir string, logger *slog.Logger, opts ...Option) (*Workbook, error) {
	wb := &Workbook{
		file:      excelize.NewFile(),
		path:      filepath.Join(outputDir, name+".xlsx"),
		logger:    logger.With("component", "report"),
		sheets:    make(map[string]*Sheet),
		prompt:    StdinPrompt,
		rowHeight: 100,
	}
	for _, opt := range opts {
		opt(wb)
	}

	if err := wb.initStyles(); err != nil {
		return nil, fmt.Errorf("report styles: %w", err)
	}

	// The workbook starts with one default sheet; repurpose it as the
	// aggregate sheet so sheet order matches creation order.
	if err := wb.file.SetSheetName(wb.file.GetSheetName(0), TotalSheetName); err != nil {
		return nil, fmt.Errorf("rename aggregate sheet: %w", err)
	}
	total, err := wb.register(TotalSheetName)
	if err != nil {
		return nil, err
	}
	wb.total = total

	wb.logger.Info("workbook created", "path", wb.path)
	return wb, nil
}

func (wb *Workbook) initStyles() error {
	var err error
	wb.headerStyle, err = wb.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	wb.hyperlinkStyle, err = wb.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "1265BE", Underline: "single"},
	})
	if err != nil {
		return err
	}
	currencyFmt := `"$"#,##0.00`
	wb.currencyStyle, err = wb.file.NewStyle(&excelize.Style{
		CustomNumFmt: &currencyFmt,
	})
	if err != nil {
		return err
	}
	// Titles without a canonical link cannot be verified against a live
	// listing; render them muted instead of linked.
	wb.unverifiedStyle, err = wb.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: "808080"},
	})
	return err
}

// TotalSheet returns the aggregate sheet handle.
func (wb *Workbook) TotalSheet() *Sheet {
	return wb.total
}

// NewSheet creates a worksheet for a term, writes its header row, and
// returns its handle.
func (wb *Workbook) NewSheet(term string) (*Sheet, error) {
	name := wb.uniqueSheetName(term)
	if _, err := wb.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("new sheet %q: %w", name, err)
	}
	return wb.register(name)
}

// register writes headers and installs the row counter for a sheet that
// already exists in the file.
func (wb *Workbook) register(name string) (*Sheet, error) {
	headers := schema.Headers()
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := wb.file.SetCellValue(name, cell, header); err != nil {
			return nil, fmt.Errorf("write header %q: %w", header, err)
		}
		if err := wb.file.SetCellStyle(name, cell, cell, wb.headerStyle); err != nil {
			return nil, err
		}
	}

	s := &Sheet{
		wb:     wb,
		name:   name,
		next:   1,
		widths: make([]float64, len(headers)),
	}
	for col, header := range headers {
		s.widths[col] = float64(len(header))
	}
	wb.sheets[name] = s
	return s, nil
}

// fieldWrites is the fixed render order for one row. Fields with a
// companion link are written as hyperlinks when the companion is present.
var fieldWrites = []struct {
	field schema.Field
	href  schema.Field
}{
	{field: schema.FieldKeyword},
	{field: schema.FieldTitle, href: schema.FieldTitleHref},
	{field: schema.FieldPrice},
	{field: schema.FieldSeller, href: schema.FieldSellerLink},
	{field: schema.FieldItemID},
	{field: schema.FieldShipping},
}

// Append renders one record into the next row of the sheet and advances the
// row counter by exactly one. Absent fields render as empty cells. All
// failures are logged and contained; a row write never aborts the run.
func (s *Sheet) Append(rec *schema.Record) {
	wb := s.wb
	if registered, ok := wb.sheets[s.name]; !ok || registered != s {
		// An unregistered handle means a programming error upstream.
		wb.logger.Error("write to unknown sheet skipped", "sheet", s.name)
		return
	}

	row := s.next + 1 // excelize rows are 1-based
	if err := wb.file.SetRowHeight(s.name, row, wb.rowHeight); err != nil {
		wb.logger.Error("set row height", "sheet", s.name, "row", row, "error", err)
	}

	if imagePath, ok := rec.String(schema.FieldImagePath); ok {
		cell, _ := excelize.CoordinatesToCellName(schema.Column(schema.FieldImagePath)+1, row)
		err := wb.file.AddPicture(s.name, cell, imagePath, &excelize.GraphicOptions{AutoFit: true})
		if err != nil {
			wb.logger.Error("embed image", "sheet", s.name, "row", row, "path", imagePath, "error", err)
		}
	}

	for _, fw := range fieldWrites {
		s.writeField(rec, fw.field, fw.href, row)
	}

	s.next++
}

func (s *Sheet) writeField(rec *schema.Record, field, href schema.Field, row int) {
	wb := s.wb
	col := schema.Column(field)
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		wb.logger.Error("cell name", "sheet", s.name, "field", field, "error", err)
		return
	}

	value, ok := rec.Get(field)
	if !ok {
		return // absent values render as empty cells
	}

	if err := wb.file.SetCellValue(s.name, cell, value); err != nil {
		wb.logger.Error("write cell", "sheet", s.name, "cell", cell, "error", err)
		return
	}
	s.trackWidth(col, value)

	target, linked := "", false
	if href != "" {
		target, linked = rec.String(href)
	}

	switch {
	case linked && target != "":
		if err := wb.file.SetCellHyperLink(s.name, cell, target, "External"); err != nil {
			wb.logger.Error("write hyperlink", "sheet", s.name, "cell", cell, "error", err)
		} else {
			s.style(cell, wb.hyperlinkStyle)
		}
	case field == schema.FieldPrice:
		s.style(cell, wb.currencyStyle)
	case field == schema.FieldTitle:
		s.style(cell, wb.unverifiedStyle)
	}
}

func (s *Sheet) style(cell string, styleID int) {
	if err := s.wb.file.SetCellStyle(s.name, cell, cell, styleID); err != nil {
		s.wb.logger.Error("set cell style", "sheet", s.name, "cell", cell, "error", err)
	}
}

// trackWidth records the widest content seen per column so Close can fit
// column widths without re-reading the sheet.
func (s *Sheet) trackWidth(col int, value any) {
	if col < 0 || col >= len(s.widths) {
		return
	}
	w := float64(len(fmt.Sprintf("%v", value)))
	if w > s.widths[col] {
		s.widths[col] = w
	}
}

// Rows returns the number of data rows written so far.
func (s *Sheet) Rows() int {
	return s.next - 1
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Close fits column widths on every sheet and persists the workbook. A save
// failure (typically the file being open in a spreadsheet application)
// blocks on operator acknowledgment and retries; the report is the run's
// entire output, so giving up is worse than waiting.
func (wb *Workbook) Close() error {
	for name, s := range wb.sheets {
		wb.fitColumns(name, s)
	}

	for {
		err := wb.file.SaveAs(wb.path)
		if err == nil {
			break
		}
		wb.logger.Error("save workbook failed", "path", wb.path, "error", err)
		wb.prompt("Could not save the report. Close the file if it is open elsewhere, then press Enter to retry...")
	}

	wb.logger.Info("workbook saved", "path", wb.path)
	return wb.file.Close()
}

func (wb *Workbook) fitColumns(name string, s *Sheet) {
	for col, width := range s.widths {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			continue
		}
		w := width + 2
		if w > maxColWidth {
			w = maxColWidth
		}
		if col == schema.Column(schema.FieldImagePath) {
			w = imageColWidth
		}
		if err := wb.file.SetColWidth(name, colName, colName, w); err != nil {
			wb.logger.Error("set column width", "sheet", name, "column", colName, "error", err)
		}
	}
}

// uniqueSheetName makes a term safe and unique as a worksheet name: xlsx
// forbids several characters and caps names at 31 runes.
func (wb *Workbook) uniqueSheetName(term string) string {
	replacer := strings.NewReplacer(
		":", " ", "\\", " ", "/", " ", "?", " ",
		"*", " ", "[", " ", "]", " ",
	)
	base := strings.TrimSpace(replacer.Replace(term))
	if base == "" {
		base = "Sheet"
	}
	base = truncateRunes(base, 31)

	name := base
	for i := 2; ; i++ {
		if _, exists := wb.sheets[name]; !exists {
			return name
		}
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, 31-len(suffix)) + suffix
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
