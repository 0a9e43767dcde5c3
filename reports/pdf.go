package reports

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
)

// WritePDF renders the report as a one or two page A4 document with the
// daily table and an hourly bar chart.
func WritePDF(w io.Writer, r *AccessReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(r.RestaurantName+" access report"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("QR menu access report"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Restaurant: " + r.RestaurantName,
		"Period: " + r.Period(),
		"Table: " + r.TableLabel(),
		fmt.Sprintf("Total accesses: %d", r.Total),
	} {
		pdf.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Total accesses", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	if len(r.Daily) == 0 {
		pdf.CellFormat(100, 8, "No accesses in this period.", "1", 1, "L", false, 0, "")
	}
	for _, d := range r.Daily {
		pdf.CellFormat(60, 7, d.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", d.TotalAccesses), "1", 1, "R", false, 0, "")
	}

	png, err := HourlyChartPNG(r.Hourly)
	if err != nil {
		utils.ErrorLogger.Warnf("hourly chart skipped for %s: %v", r.RestaurantSlug, err)
	} else {
		pdf.Ln(6)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("hourly", opts, bytes.NewReader(png))
		pdf.ImageOptions("hourly", 10, 0, 190, 0, true, opts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// HourlyChartPNG draws one bar per hour.
func HourlyChartPNG(hours []models.HourlyAccessCount) ([]byte, error) {
	if len(hours) == 0 {
		return nil, fmt.Errorf("no hourly data")
	}

	var peak float64
	bars := make([]chart.Value, 0, len(hours))
	for _, h := range hours {
		v := float64(h.Count)
		if v > peak {
			peak = v
		}
		bars = append(bars, chart.Value{Label: fmt.Sprintf("%02d", h.Hour), Value: v})
	}

	graph := chart.BarChart{
		Title:      "Accesses by hour (UTC)",
		Width:      900,
		Height:     360,
		BarWidth:   26,
		BarSpacing: 8,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak + 1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
