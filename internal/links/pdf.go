package links

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points. One square page, the code centered at half its
// pixel size, the caption along the bottom margin.
const (
	pageSize        = 500.0
	qrDrawSize      = 128.0
	captionMargin   = 50.0
	captionFontSize = 12.0
)

// ComposePDF wraps a rendered PNG into a single-page PDF with the source
// URL printed as a caption. A fixed creation date keeps the output
// deterministic for a given input.
func ComposePDF(pngBytes []byte, rawurl string) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageSize, Ht: pageSize},
	})
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(pngBytes))
	pdf.ImageOptions("qr", (pageSize-qrDrawSize)/2, (pageSize-qrDrawSize)/2,
		qrDrawSize, qrDrawSize, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", captionFontSize)
	caption := fitCaption(pdf, "Link: "+rawurl, pageSize-2*captionMargin)
	pdf.Text(captionMargin, pageSize-captionMargin, caption)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("compose pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fitCaption truncates a caption that would overflow the printable width,
// marking the cut with an ellipsis. Captions that fit pass through
// unchanged.
func fitCaption(pdf *gofpdf.Fpdf, s string, maxWidth float64) string {
	if pdf.GetStringWidth(s) <= maxWidth {
		return s
	}
	const ellipsis = "..."
	for len(s) > 0 && pdf.GetStringWidth(s+ellipsis) > maxWidth {
		s = s[:len(s)-1]
	}
	return s + ellipsis
}
