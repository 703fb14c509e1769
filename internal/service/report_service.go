package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"mindset-backend/internal/coaching"
	"mindset-backend/internal/model"
	"mindset-backend/internal/scoring"
)

// ReportInput is everything printed on a results report.
type ReportInput struct {
	AssessmentName string
	Version        int
	Result         model.AssessmentResultOut
	Pillars        scoring.PillarConfig
	Tips           []coaching.Tip
}

type ReportService interface {
	Render(w io.Writer, in ReportInput) error
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

func (s *reportService) Render(w io.Writer, in ReportInput) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("%s results", in.AssessmentName), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("%s (v%d)", in.AssessmentName, in.Version)))
	pdf.Ln(10)
	if in.Result.CompletedAt != nil {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, "Completed "+in.Result.CompletedAt.Format("2 Jan 2006 15:04 MST"))
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Pillar scores")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, key := range in.Pillars.Keys() {
		score, ok := in.Result.PillarScores[key]
		if !ok {
			continue
		}
		p := in.Pillars[key]
		name := p.DisplayName
		if name == "" {
			name = key
		}
		pdf.CellFormat(90, 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, string(p.Classify(score)), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	if len(in.Result.MetaScores) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Thinking / Feeling / Action")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		for _, cat := range []scoring.MetaCategory{scoring.Thinking, scoring.Feeling, scoring.Action} {
			if score, ok := in.Result.MetaScores[string(cat)]; ok {
				pdf.CellFormat(90, 7, string(cat), "1", 0, "L", false, 0, "")
				pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", score), "1", 1, "R", false, 0, "")
			}
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr("Strengths: "+listOrNone(in.Result.Strengths)), "", "L", false)
	pdf.MultiCell(0, 6, tr("Growth areas: "+listOrNone(in.Result.GrowthAreas)), "", "L", false)

	if len(in.Tips) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Coaching tips")
		pdf.Ln(8)
		for _, tip := range in.Tips {
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 6, tr(fmt.Sprintf("%s (%s)", tip.Pillar, tip.Classification)))
			pdf.Ln(6)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, tr("Practice: "+tip.PracticeTip), "", "L", false)
			pdf.MultiCell(0, 5, tr("Game day: "+tip.GameDayTip), "", "L", false)
			pdf.Ln(2)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
