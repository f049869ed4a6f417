// Package export renders human-readable workout summaries. Exports are a
// one-way projection for sharing; nothing round-trips back through them.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"swimcraft/app/internal/domain"
	"swimcraft/app/internal/reconcile"
)

// Format selects the export rendering.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// ContentType returns the MIME type for the rendered format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// Extension returns the file extension for the rendered format.
func (f Format) Extension() string {
	if f == FormatPDF {
		return "pdf"
	}
	return "txt"
}

// Renderer produces workout exports.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render produces the export in the requested format.
func (r *Renderer) Render(entry reconcile.Merged, format Format) ([]byte, error) {
	switch format {
	case FormatPDF:
		return r.PDF(entry)
	case FormatText:
		return r.Text(entry)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Text renders a plain-text summary: header lines followed by the segments
// grouped by warm-up, main set and cool-down.
func (r *Renderer) Text(entry reconcile.Merged) ([]byte, error) {
	w := entry.Workout
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", w.Name)
	fmt.Fprintf(&b, "Date: %s\n", w.Date.Format("Jan 2, 2006"))
	if w.Coach != nil {
		fmt.Fprintf(&b, "Coach: %s\n", w.Coach.Name)
	}
	fmt.Fprintf(&b, "Distance: %.0f yards\n", entry.Distance)
	fmt.Fprintf(&b, "Duration: %.0f seconds\n", entry.Duration)
	fmt.Fprintf(&b, "Estimated calories: %.1f kcal\n", entry.EstimatedCalories)
	if len(entry.Strokes) > 0 {
		fmt.Fprintf(&b, "Strokes: %s\n", strings.Join(entry.Strokes, ", "))
	}

	writeTextSection(&b, "Warm Up", w.WarmUp)
	writeTextSection(&b, "Main Set", w.MainSet)
	writeTextSection(&b, "Cool Down", w.CoolDown)

	return []byte(b.String()), nil
}

func writeTextSection(b *strings.Builder, title string, segments []domain.Segment) {
	fmt.Fprintf(b, "\n%s\n", title)
	if len(segments) == 0 {
		fmt.Fprintln(b, "  (none)")
		return
	}
	for _, s := range segments {
		fmt.Fprintf(b, "  %s\n", segmentLine(s))
	}
}

// PDF renders a single-page A4 summary with the same section grouping the
// detail screen shows.
func (r *Renderer) PDF(entry reconcile.Merged) ([]byte, error) {
	w := entry.Workout

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, w.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", w.Date.Format("Jan 2, 2006")), "", 1, "L", false, 0, "")
	if w.Coach != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Coach: %s", w.Coach.Name), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Distance: %.0f yards", entry.Distance), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Duration: %.0f seconds", entry.Duration), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Estimated calories: %.1f kcal", entry.EstimatedCalories), "", 1, "L", false, 0, "")
	if len(entry.Strokes) > 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Strokes: %s", strings.Join(entry.Strokes, ", ")), "", 1, "L", false, 0, "")
	}

	writePDFSection(pdf, "Warm Up", w.WarmUp)
	writePDFSection(pdf, "Main Set", w.MainSet)
	writePDFSection(pdf, "Cool Down", w.CoolDown)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("failed to render workout PDF",
			zap.String("workout_id", w.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDFSection(pdf *gofpdf.Fpdf, title string, segments []domain.Segment) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if len(segments) == 0 {
		pdf.CellFormat(0, 6, "(none)", "", 1, "L", false, 0, "")
		return
	}
	for _, s := range segments {
		pdf.CellFormat(0, 6, segmentLine(s), "", 1, "L", false, 0, "")
	}
}

// segmentLine formats one segment the way the editor shows it, e.g.
// "4 x 100 yd Swim (Freestyle) @ 90s". Unset fields are left out.
func segmentLine(s domain.Segment) string {
	var parts []string
	if s.Amount != nil {
		parts = append(parts, fmt.Sprintf("%d x", *s.Amount))
	}
	if s.Yards != nil {
		parts = append(parts, fmt.Sprintf("%.0f yd", *s.Yards))
	}
	if s.Type != "" {
		parts = append(parts, s.Type)
	}
	if s.Stroke != "" {
		parts = append(parts, fmt.Sprintf("(%s)", s.Stroke))
	}
	if s.Time != nil {
		parts = append(parts, fmt.Sprintf("@ %.0fs", *s.Time))
	}
	if len(parts) == 0 {
		return "(empty segment)"
	}
	return strings.Join(parts, " ")
}
