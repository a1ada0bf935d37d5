package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"ghginventory/internal/core"
)

// A4 portrait in points.
var (
	pageWidth  = vg.Points(595)
	pageHeight = vg.Points(842)
	margin     = vg.Points(50)
)

// SummaryTitle is the heading of the yearly summary document.
func SummaryTitle(inventory string) string {
	return inventory + " - Yearly Summary Report"
}

// SummaryLines renders one line per year of the yearly summary.
func SummaryLines(yearly []core.YearlyTotal) []string {
	lines := make([]string, len(yearly))
	for i, y := range yearly {
		lines[i] = fmt.Sprintf("Year: %d, Emissions (kg): %.2f, Change (%%): %.2f", y.Year, y.EmissionsKg, y.ChangePct)
	}
	return lines
}

// WritePDF writes the yearly summary as a PDF, continuing on new pages when
// the lines do not fit.
func WritePDF(w io.Writer, title string, yearly []core.YearlyTotal) error {
	pdf := vgpdf.New(pageWidth, pageHeight)
	c := draw.New(pdf)

	titleStyle := textStyle(vg.Points(16))
	bodyStyle := textStyle(vg.Points(11))
	lineHeight := vg.Points(18)

	y := pageHeight - margin
	c.FillText(titleStyle, vg.Point{X: margin, Y: y}, title)
	y -= 2 * lineHeight

	for _, line := range SummaryLines(yearly) {
		if y < margin {
			pdf.NextPage()
			y = pageHeight - margin
		}
		c.FillText(bodyStyle, vg.Point{X: margin, Y: y}, line)
		y -= lineHeight
	}

	if _, err := pdf.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func textStyle(size vg.Length) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.DefaultCache.Lookup(plot.DefaultFont, size).Font,
		Handler: plot.DefaultTextHandler,
		XAlign:  draw.XLeft,
		YAlign:  draw.YTop,
	}
}
