// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/lindex/pkg/types"
)

const (
	conceptCitation = "Belikov AV and Belikov VV. A citation-based, author- and age-normalized, " +
		"logarithmic index for evaluation of individual researchers independently of " +
		"publication counts. F1000Research 2015, 4:884"
	conceptDOI = "https://doi.org/10.12688/f1000research.7070.1"

	maxTitleChars = 150
)

// WritePDF renders the result as a landscape A4 report: author block,
// L-index, and a table of the top contributing publications.
func WritePDF(path string, result types.ScoredResult, maxPubs, topN int) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Author block.
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 10, tr(result.Author.Name), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	if result.Author.Affiliation != "" {
		pdf.MultiCell(0, 5, tr(result.Author.Affiliation), "", "L", false)
	}
	if len(result.Author.Keywords) > 0 {
		pdf.MultiCell(0, 5, tr(strings.Join(result.Author.Keywords, ", ")), "", "L", false)
	}
	if result.Author.ProfileURL != "" {
		pdf.SetTextColor(0, 0, 255)
		pdf.SetFontStyle("U")
		pdf.WriteLinkString(5, result.Author.ProfileURL, result.Author.ProfileURL)
		pdf.SetFontStyle("")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if result.RateLimited {
		pdf.SetTextColor(255, 0, 0)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, "*** WARNING: processing was cut short by provider rate limiting. "+
			"Results are based on incomplete data. ***", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("L-index: %.2f", result.LIndex), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Calculated on %s based on the %d most cited publications",
		result.ComputedAt.Format("2 January 2006"), maxPubs), "", "L", false)
	pdf.Ln(5)

	// Publications table.
	pubs := result.Publications
	if topN > 0 && len(pubs) > topN {
		pubs = pubs[:topN]
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Top %d Contributing Publications", len(pubs)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(pubs) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, "(no publications with usable data)", "", 1, "L", false, 0, "")
	} else {
		publicationTable(pdf, tr, pubs)
	}

	// Footer with the concept citation.
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(0, 4, tr(conceptCitation), "", "L", false)
	pdf.SetTextColor(0, 0, 255)
	pdf.SetFontStyle("U")
	pdf.WriteLinkString(4, conceptDOI, conceptDOI)
	pdf.SetFontStyle("")
	pdf.SetTextColor(0, 0, 0)

	return pdf.OutputFileAndClose(path)
}

func publicationTable(pdf *fpdf.Fpdf, tr func(string) string, pubs []types.NormalizedPublication) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	totalW := pageW - left - right

	headers := []string{"#", "Score", "Cites", "Authors", "Age", "Year", "Title"}
	widths := []float64{10, 22, 22, 22, 14, 18, 0}
	fixed := 0.0
	for _, w := range widths[:6] {
		fixed += w
	}
	widths[6] = totalW - fixed

	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	aligns := []string{"R", "R", "R", "R", "R", "C", "L"}
	pdf.SetFont("Helvetica", "", 8)
	for i, p := range pubs {
		title := truncateTitle(p.Title)
		cells := []string{
			fmt.Sprintf("%d.", i+1),
			fmt.Sprintf("%.1f", p.Score),
			fmt.Sprintf("%d", p.Citations),
			fmt.Sprintf("%d", p.AuthorCount),
			fmt.Sprintf("%d", p.Age),
			fmt.Sprintf("%d", p.Year),
			tr(title),
		}
		for j, cell := range cells {
			pdf.CellFormat(widths[j], 6, cell, "1", 0, aligns[j], false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// truncateTitle caps a title at maxTitleChars characters. Truncation is
// on runes, never mid-way through a multi-byte sequence.
func truncateTitle(s string) string {
	r := []rune(s)
	if len(r) <= maxTitleChars {
		return s
	}
	return string(r[:maxTitleChars]) + "..."
}
