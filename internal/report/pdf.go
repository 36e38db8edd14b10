package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// Input is everything a forecast report renders.
type Input struct {
	Title       string
	GeneratedAt time.Time
	Assumptions model.AssumptionSet
	Indicators  projection.Indicators
	CashFlow    projection.CashFlowSchedule
	// Optional sections.
	Scenarios []projection.ScenarioResult
	Wear      []projection.WearStatus
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	in  Input
}

// GeneratePDF renders the forecast report and returns the PDF bytes.
func GeneratePDF(in Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePDF renders the forecast report to w.
func WritePDF(w io.Writer, in Input) error {
	if in.Title == "" {
		in.Title = "Prévision financière"
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)

	r := &pdfReport{
		pdf: pdf,
		// Core fonts are cp1252; translate so € and accents render.
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
		in: in,
	}
	pdf.SetTitle(in.Title, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	r.addSummaryPage()
	r.addCashFlowPage()
	if len(in.Scenarios) > 0 {
		r.addScenarios()
	}
	if len(in.Wear) > 0 {
		r.addWear()
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (r *pdfReport) addSummaryPage() {
	in := r.in
	ind := in.Indicators
	r.pdf.AddPage()

	r.pdf.SetFont("Helvetica", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, r.tr(in.Title), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "I", 10)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.CellFormat(contentWidth, 6, r.tr("Généré le "+in.GeneratedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)

	r.drawSectionHeader("Résultats avant charges")
	widths := []float64{60, 40, 40, 40}
	r.drawTableHeader([]string{"Segment", "CA", "Amortissement", "Résultat"}, widths)
	for _, l := range model.Lines() {
		li := ind.Line(l)
		r.drawTableRow([]string{l.Label(), money(li.Revenue), money(li.Amortization), money(li.ResultBeforeLevies)}, widths, false)
	}
	r.drawTableRow([]string{"Total", money(ind.TotalRevenue), money(ind.TotalAmortization), money(ind.ResultBeforeLevies)}, widths, true)
	r.pdf.Ln(4)

	r.drawSectionHeader("Charges & prélèvements")
	widths = []float64{100, 40}
	r.drawTableHeader([]string{"Poste", "Montant"}, widths)
	r.drawTableRow([]string{"Cotisations sociales", money(ind.Levies.SocialContribution)}, widths, false)
	r.drawTableRow([]string{"Versement libératoire IR", money(ind.Levies.FlatTax)}, widths, false)
	r.drawTableRow([]string{"Formation professionnelle", money(ind.Levies.TrainingLevy)}, widths, false)
	r.drawTableRow([]string{"Total prélèvements", money(ind.Levies.Total)}, widths, true)
	r.pdf.Ln(4)

	r.drawSectionHeader("Indicateurs clés")
	r.drawTableHeader([]string{"Indicateur", "Valeur"}, widths)
	rows := [][]string{
		{"Bénéfice net après prélèvements", money(ind.NetAfterLevies)},
		{"Carburant (livraisons)", money(ind.FuelCost)},
		{"Maintenance annuelle", money(ind.AnnualMaintenance)},
		{"Résultat après frais opérationnels", money(ind.ResultAfterOperations)},
		{"Marge nette", percent(ind.NetMarginPct)},
		{"Marge opérationnelle", percent(ind.OperationalMarginPct)},
		{"ROI Brasero", percent(ind.Brasero.ROIPct)},
		{"ROI Chiffres lumineux", percent(ind.Chiffres.ROIPct)},
		{"ROI total", percent(ind.ROITotalPct)},
		{"CA vs seuil auto-entreprise", percent(ind.ThresholdRatioPct)},
		{"Taux total de prélèvement", percent(ind.LevyRatioPct)},
		{"CA par jour loué", money(ind.RevenuePerDay)},
		{"Point mort (jours)", breakEven(ind)},
	}
	for _, row := range rows {
		r.drawTableRow(row, widths, false)
	}

	if ind.ThresholdExceeded {
		r.pdf.Ln(4)
		r.pdf.SetFont("Helvetica", "B", 10)
		r.pdf.SetTextColor(180, 30, 30)
		msg := fmt.Sprintf("Attention : le CA estimé de %s dépasse le seuil de %s.",
			money(ind.TotalRevenue), money(in.Assumptions.Levies.Threshold))
		r.pdf.MultiCell(contentWidth, 5, r.tr(msg), "", "L", false)
	}
}

func (r *pdfReport) addCashFlowPage() {
	r.pdf.AddPage()
	r.drawSectionHeader("Trésorerie sur 12 mois")
	widths := []float64{25, 27, 27, 27, 27, 24, 23}
	r.drawTableHeader([]string{"Mois", "CA", "Amort.", "Maint.", "Prélèv.", "Net", "Cumul"}, widths)
	for _, m := range r.in.CashFlow.Months {
		r.drawTableRow([]string{
			m.Label,
			money(m.Revenue),
			money(m.Depreciation),
			money(m.Maintenance),
			money(m.LevyCharge),
			money(m.Net),
			money(m.Cumulative),
		}, widths, m.LevyCharge != 0)
	}
}

func (r *pdfReport) addScenarios() {
	r.pdf.Ln(6)
	r.drawSectionHeader("Analyse de scénarios")
	widths := []float64{40, 35, 35, 35, 35}
	r.drawTableHeader([]string{"Scénario", "CA", "Net", "Après opérations", "Trésorerie 12 m"}, widths)
	for _, s := range r.in.Scenarios {
		r.drawTableRow([]string{
			capitalize(s.Scenario.Name),
			money(s.Indicators.TotalRevenue),
			money(s.Indicators.NetAfterLevies),
			money(s.Indicators.ResultAfterOperations),
			money(s.CashFlow.FinalBalance()),
		}, widths, false)
	}
}

func (r *pdfReport) addWear() {
	r.pdf.Ln(6)
	r.drawSectionHeader("Usure du matériel")
	widths := []float64{45, 30, 30, 35, 40}
	r.drawTableHeader([]string{"Matériel", "Années", "Usure", "Valeur nette", "Renouvellement"}, widths)
	for _, w := range r.in.Wear {
		r.drawTableRow([]string{
			w.Line.Label(),
			fmt.Sprintf("%.1f", w.ElapsedYears),
			percent(w.WearRatio * 100),
			money(w.BookValue),
			w.ReplacementDate.Format("02/01/2006"),
		}, widths, w.FullyDepreciated)
	}
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Helvetica", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(3)
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		r.pdf.CellFormat(widths[i], 6, r.tr(h), "1", 0, align(i), true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, bold bool) {
	r.pdf.SetTextColor(50, 50, 50)
	if bold {
		r.pdf.SetFont("Helvetica", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Helvetica", "", 9)
		r.pdf.SetFillColor(250, 250, 250)
	}
	for i, c := range cells {
		r.pdf.CellFormat(widths[i], 5, r.tr(c), "1", 0, align(i), true, 0, "")
	}
	r.pdf.Ln(-1)
}

func align(col int) string {
	if col == 0 {
		return "L"
	}
	return "R"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func money(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f %%", v)
}

func breakEven(ind projection.Indicators) string {
	if !ind.BreakEvenDefined() || math.IsInf(ind.BreakEvenDays, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", ind.BreakEvenDays)
}
