package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/prescription"
)

// BenchCard holds the data printed on one QR-coded bench card. The QR
// payload is the full text prescription, so scanning a card is enough to
// rebuild the bench.
type BenchCard struct {
	Name         string
	Prescription string
	Components   int
	Emitters     int
	Sensors      int
}

// NewBenchCard builds a card for a bench layout, rendering the layout to
// its text prescription for the QR payload.
func NewBenchCard(name string, spec level.BoardSpec) BenchCard {
	card := BenchCard{
		Name:         name,
		Prescription: prescription.Generate(spec),
		Components:   len(spec.Components),
	}
	for _, s := range spec.Components {
		switch s.Kind {
		case model.KindEmitter:
			card.Emitters++
		case model.KindSensor, model.KindCoincidenceCounter:
			card.Sensors++
		}
	}
	return card
}

// Card layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each card cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	cardPageWidth  = 215.9 // US Letter width in mm
	cardPageHeight = 279.4 // US Letter height in mm
	cardMarginTop  = 12.7  // mm
	cardMarginLeft = 4.8   // mm
	cardWidth      = 66.7  // mm per card
	cardHeight     = 25.4  // mm per card
	cardCols       = 3
	cardRows       = 10
	cardsPerPage   = cardCols * cardRows
	qrSize         = 20.0 // QR code size in mm
	cardPadding    = 2.0  // mm internal padding
)

// ExportBenchCards generates a PDF of QR-coded bench cards. Each card
// carries the bench name, its component counts, and a QR code holding the
// text prescription. Cards are laid out on a standard label sheet format
// (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportBenchCards(path string, cards []BenchCard) error {
	if len(cards) == 0 {
		return fmt.Errorf("no benches to generate cards for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, card := range cards {
		// Add new page when needed
		if i%cardsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % cardsPerPage
		col := posOnPage % cardCols
		row := posOnPage / cardCols

		x := cardMarginLeft + float64(col)*cardWidth
		y := cardMarginTop + float64(row)*cardHeight

		if err := renderCard(pdf, x, y, card, i); err != nil {
			return fmt.Errorf("failed to render card for %q: %w", card.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderCard draws a single bench card at the given position.
func renderCard(pdf *fpdf.Fpdf, x, y float64, card BenchCard, index int) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, cardWidth, cardHeight, "D")

	qrPNG, err := qrcode.Encode(card.Prescription, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_card_%d", index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the card
	qrX := x + cardWidth - qrSize - cardPadding
	qrY := y + (cardHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of card)
	textX := x + cardPadding
	textW := cardWidth - qrSize - 3*cardPadding

	// Bench name (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+cardPadding)

	// Truncate name if too long
	name := card.Name
	if name == "" {
		name = "Untitled bench"
	}
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	// Component counts
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+cardPadding+5)
	counts := fmt.Sprintf("%d components", card.Components)
	pdf.CellFormat(textW, 3.5, counts, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+cardPadding+9)
	detail := fmt.Sprintf("%d emitters, %d sensors", card.Emitters, card.Sensors)
	pdf.CellFormat(textW, 3, detail, "", 1, "L", false, 0, "")

	// Scan hint
	pdf.SetXY(textX, y+cardPadding+12.5)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.SetTextColor(150, 100, 0)
	pdf.CellFormat(textW, 3, "Scan to load this bench", "", 0, "L", false, 0, "")

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}
