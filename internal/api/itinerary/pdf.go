package itinerary

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

// RenderPDF lays out a stored itinerary as an A4 document, one section per day.
func RenderPDF(it *types.StoredItinerary) ([]byte, error) {
	plan, _, err := types.DecodeItineraryPlan(it.Plan)
	if err != nil {
		return nil, fmt.Errorf("decoding stored plan: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	if !it.CreatedAt.IsZero() {
		pdf.SetCreationDate(it.CreatedAt)
	}
	pdf.SetTitle("Itinerary: "+it.Destination, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, tr(it.Destination), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, fmt.Sprintf("%s to %s", readableDate(it.StartDate), readableDate(it.EndDate)), "", 1, "L", false, 0, "")
	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(125, 6, tr(value), "", 1, "L", false, 0, "")
	}
	row("Travelers", strconv.Itoa(it.Travellers))
	row("Budget", it.Budget)
	row("Daily hours", it.DailyStartTime+" - "+it.DailyEndTime)
	pdf.Ln(4)

	for _, day := range plan.Days {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(day.Label), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)

		for _, a := range day.Activities {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(18, 6, a.Time, "", 0, "L", false, 0, "")
			pdf.CellFormat(152, 6, tr(a.LocationName), "", 1, "L", false, 0, "")

			pdf.SetX(38)
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(40, 40, 40)
			if a.Description != "" {
				pdf.MultiCell(152, 4.5, tr(a.Description), "", "L", false)
				pdf.SetX(38)
			}
			pdf.SetTextColor(110, 110, 110)
			meta := fmt.Sprintf("Duration %s | Travel %s", orDash(a.Duration), orDash(a.TravelTime))
			if a.Notes != "" {
				meta += " | " + a.Notes
			}
			pdf.MultiCell(152, 4.5, tr(meta), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(2)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func readableDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
