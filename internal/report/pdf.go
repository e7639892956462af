package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/signintech/gopdf"
)

var ErrFontUnavailable = errors.New("no usable TTF font for PDF rendering")

// defaultFontPaths are tried in order when no font path is configured.
var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	fontFamily = "DejaVu"
	lineWidth  = 500
)

type pdfWriter struct {
	pdf gopdf.GoPdf
	err error
}

func (p *pdfWriter) font(size int) {
	if p.err == nil {
		p.err = p.pdf.SetFont(fontFamily, "", size)
	}
}

func (p *pdfWriter) line(text string, gap float64) {
	if p.err != nil {
		return
	}
	lines, err := p.pdf.SplitText(text, lineWidth)
	if err != nil {
		p.err = err
		return
	}
	for _, l := range lines {
		if p.err = p.pdf.Cell(nil, l); p.err != nil {
			return
		}
		p.pdf.Br(gap)
	}
}

func (p *pdfWriter) section(title string, items []string) {
	p.font(14)
	p.line(title, 16)
	p.font(11)
	if len(items) == 0 {
		p.line("- none", 13)
	}
	for _, item := range items {
		p.line("- "+item, 13)
	}
	if p.err == nil {
		p.pdf.Br(10)
	}
}

// loadFont registers fontPath, or the first default path that loads when fontPath is empty.
func loadFont(pdf *gopdf.GoPdf, fontPath string) error {
	paths := defaultFontPaths
	if fontPath != "" {
		paths = []string{fontPath}
	}

	var lastErr error
	for _, path := range paths {
		err := pdf.AddTTFFont(fontFamily, path)
		if err == nil {
			log.Debug().Str("path", path).Msg("Loaded report font")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrFontUnavailable, lastErr)
}

// RenderPDF lays out a weekly summary as a single A4 document.
func RenderPDF(w Weekly, fontPath string) ([]byte, error) {
	p := &pdfWriter{}
	p.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	p.pdf.AddPage()

	if err := loadFont(&p.pdf, fontPath); err != nil {
		return nil, err
	}

	p.font(20)
	p.line("Weekly Health Report", 30)

	p.font(12)
	p.line(fmt.Sprintf("Patient: %s", w.PatientID), 15)
	p.line(fmt.Sprintf("Period: %s - %s", w.From.Format("02.01.2006"), w.To.Format("02.01.2006")), 15)
	p.line(fmt.Sprintf("Overall score: %d%%", w.Score), 25)

	checks := []string{
		fmt.Sprintf("Checks completed: %d", w.SymptomChecks),
		fmt.Sprintf("Highest risk: %s", w.HighestRisk),
		fmt.Sprintf("Urgent checks: %d", w.UrgentChecks),
	}
	for _, c := range w.TopConditions {
		checks = append(checks, "Possible condition: "+c)
	}
	p.section("Symptoms", checks)

	moods := []string{fmt.Sprintf("Entries: %d on %d day(s)", w.MoodLogs, w.MoodDays)}
	for _, m := range moodOrder {
		if n := w.MoodCounts[m]; n > 0 {
			moods = append(moods, fmt.Sprintf("%s: %d", m, n))
		}
	}
	if w.HighRiskMoods > 0 {
		moods = append(moods, fmt.Sprintf("High risk entries: %d", w.HighRiskMoods))
	}
	p.section("Mood", moods)

	p.section("Achievements", w.Achievements)
	p.section("Recommendations", w.Recommendations)

	if p.err != nil {
		return nil, fmt.Errorf("layout PDF: %w", p.err)
	}

	var buf bytes.Buffer
	if _, err := p.pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
