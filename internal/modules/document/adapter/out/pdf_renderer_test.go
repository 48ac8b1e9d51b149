package out_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	docout "folio/internal/modules/document/adapter/out"
	"folio/internal/modules/document/domain"
	"folio/internal/modules/document/dto"
	apperrors "folio/internal/platform/errors"
)

// buildPDF lays out objects 1..n and writes a matching xref table.
func buildPDF(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func stream(content string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
}

func samplePDF() []byte {
	return buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R /Outlines 7 0 R /Dests 10 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 200 300] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 5 0 R >> >> /Contents 6 0 R >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 5 0 R >> >> /Contents 11 0 R /MediaBox [0 0 100 100] >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		stream("BT /F1 12 Tf 20 250 Td (Hello) Tj ET"),
		"<< /Type /Outlines /First 8 0 R /Last 9 0 R /Count 2 >>",
		"<< /Title (Intro) /Parent 7 0 R /Next 9 0 R /Dest [3 0 R /Fit] >>",
		"<< /Title (Second) /Parent 7 0 R /Prev 8 0 R /First 12 0 R /Last 12 0 R /Count 1 /A << /S /GoTo /D /sec >> >>",
		"<< /sec [4 0 R /Fit] >>",
		stream("BT /F1 12 Tf 10 50 Td (World) Tj ET"),
		"<< /Title (Missing) /Parent 9 0 R /Dest (nope) >>",
	})
}

func TestPDFRendererReadsPagesTextAndSize(t *testing.T) {
	t.Parallel()
	doc, err := docout.NewPDFRenderer().Open(context.Background(), samplePDF())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer doc.Close()
	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}

	for n, want := range map[int]string{1: "Hello", 2: "World"} {
		page, err := doc.Page(n)
		if err != nil {
			t.Fatalf("page %d: %v", n, err)
		}
		text, err := page.Text()
		if err != nil {
			t.Fatalf("text %d: %v", n, err)
		}
		if text != want {
			t.Fatalf("page %d: expected %q, got %q", n, want, text)
		}
	}

	first, _ := doc.Page(1)
	if w, h := first.Size(); w != 200 || h != 300 {
		t.Fatalf("expected inherited 200x300, got %vx%v", w, h)
	}
	second, _ := doc.Page(2)
	if w, h := second.Size(); w != 100 || h != 100 {
		t.Fatalf("expected own 100x100, got %vx%v", w, h)
	}
	if _, err := doc.Page(3); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for page 3, got %v", err)
	}
}

func TestPDFRendererOutlineAndNamedDestinations(t *testing.T) {
	t.Parallel()
	doc, err := docout.NewPDFRenderer().Open(context.Background(), samplePDF())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	items, err := doc.Outline()
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if len(items) != 2 || items[0].Title != "Intro" || items[1].Title != "Second" || len(items[1].Children) != 1 {
		t.Fatalf("unexpected outline: %+v", items)
	}
	if items[0].Dest != domain.PageDestination(0) {
		t.Fatalf("expected direct page destination, got %+v", items[0].Dest)
	}
	if items[1].Dest != domain.NamedDestination("sec") {
		t.Fatalf("expected named destination, got %+v", items[1].Dest)
	}
	if index, err := doc.ResolveDestination("sec"); err != nil || index != 1 {
		t.Fatalf("resolve sec: %d %v", index, err)
	}
	if _, err := doc.ResolveDestination("nope"); err == nil {
		t.Fatalf("expected lookup miss")
	}

	chapters := domain.Chapters(items, doc.PageCount(), doc.ResolveDestination)
	if len(chapters) != 2 || chapters[0].Page != 1 || chapters[1].Page != 2 {
		t.Fatalf("unexpected chapters: %+v", chapters)
	}
}

func TestPDFRendererRasterizesText(t *testing.T) {
	t.Parallel()
	doc, err := docout.NewPDFRenderer().Open(context.Background(), samplePDF())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	page, _ := doc.Page(1)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 300))
	if err := page.Render(context.Background(), dst, dto.Viewport{Width: 200, Height: 300, Scale: 1}); err != nil {
		t.Fatalf("render: %v", err)
	}
	dark := 0
	for y := 30; y < 60; y++ {
		for x := 15; x < 80; x++ {
			if r, _, _, _ := dst.At(x, y).RGBA(); r < 0x8000 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatalf("expected glyph pixels near the text origin")
	}
	if r, g, b, _ := dst.At(150, 280).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("expected white background")
	}
}

func TestPDFRendererRejectsGarbage(t *testing.T) {
	t.Parallel()
	for _, data := range [][]byte{[]byte("not a pdf at all"), append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0xff}, 200)...)} {
		if _, err := docout.NewPDFRenderer().Open(context.Background(), data); !errors.Is(err, apperrors.ErrDocumentUnreadable) {
			t.Fatalf("expected unreadable, got %v", err)
		}
	}
}
