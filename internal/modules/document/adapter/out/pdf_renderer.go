package out

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"rsc.io/pdf"

	"folio/internal/modules/document/domain"
	"folio/internal/modules/document/dto"
	documentout "folio/internal/modules/document/port/out"
	apperrors "folio/internal/platform/errors"
)

// US Letter, used when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFRenderer opens PDF documents with rsc.io/pdf. The parser panics on some
// malformed input, so every call into it is guarded.
type PDFRenderer struct{}

func NewPDFRenderer() documentout.Renderer {
	return PDFRenderer{}
}

func (PDFRenderer) Open(_ context.Context, data []byte) (doc documentout.Document, err error) {
	defer recoverAs(&err, "open pdf")
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDocumentUnreadable, err)
	}
	return &pdfDocument{r: r, pages: r.NumPage()}, nil
}

type pdfDocument struct {
	r     *pdf.Reader
	pages int

	// rsc.io/pdf readers are not safe for concurrent use.
	mu        sync.Mutex
	pageIndex map[string]int
}

func (d *pdfDocument) PageCount() int { return d.pages }

func (d *pdfDocument) Close() error { return nil }

func (d *pdfDocument) Page(n int) (dto.Page, error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d of %d: %w", n, d.pages, apperrors.ErrNotFound)
	}
	return &pdfPage{doc: d, n: n}, nil
}

func (d *pdfDocument) Outline() (items []domain.OutlineItem, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer recoverAs(&err, "read outline")
	root := d.r.Trailer().Key("Root").Key("Outlines")
	if root.IsNull() {
		return nil, nil
	}
	return d.outlineLevel(root.Key("First"), map[string]bool{}), nil
}

// outlineLevel converts a First/Next sibling chain. Nodes already seen are
// not revisited, so a looping sibling chain ends instead of spinning.
func (d *pdfDocument) outlineLevel(node pdf.Value, seen map[string]bool) []domain.OutlineItem {
	var items []domain.OutlineItem
	for !node.IsNull() && node.Kind() == pdf.Dict {
		key := node.String()
		if seen[key] {
			break
		}
		seen[key] = true
		item := domain.OutlineItem{
			Title: node.Key("Title").Text(),
			Dest:  d.destination(outlineTarget(node)),
		}
		if first := node.Key("First"); !first.IsNull() {
			item.Children = d.outlineLevel(first, seen)
		}
		items = append(items, item)
		node = node.Key("Next")
	}
	return items
}

func outlineTarget(node pdf.Value) pdf.Value {
	if dest := node.Key("Dest"); !dest.IsNull() {
		return dest
	}
	action := node.Key("A")
	if action.Key("S").Name() == "GoTo" {
		return action.Key("D")
	}
	return pdf.Value{}
}

func (d *pdfDocument) destination(v pdf.Value) domain.Destination {
	switch v.Kind() {
	case pdf.Name:
		return domain.NamedDestination(v.Name())
	case pdf.String:
		return domain.NamedDestination(v.RawString())
	case pdf.Array, pdf.Dict:
		if index, ok := d.indexOf(explicitTarget(v)); ok {
			return domain.PageDestination(index)
		}
	}
	return domain.Destination{}
}

// explicitTarget unwraps a destination dict (/D [...]) to its page reference.
func explicitTarget(v pdf.Value) pdf.Value {
	if v.Kind() == pdf.Dict {
		v = v.Key("D")
	}
	if v.Kind() != pdf.Array || v.Len() == 0 {
		return pdf.Value{}
	}
	return v.Index(0)
}

// indexOf maps a page object to its zero-based index. Some producers write
// the index itself instead of a page reference.
func (d *pdfDocument) indexOf(page pdf.Value) (int, bool) {
	switch page.Kind() {
	case pdf.Integer:
		return int(page.Int64()), true
	case pdf.Dict:
		if d.pageIndex == nil {
			d.pageIndex = make(map[string]int, d.pages)
			for i := 1; i <= d.pages; i++ {
				d.pageIndex[d.r.Page(i).V.String()] = i - 1
			}
		}
		index, ok := d.pageIndex[page.String()]
		return index, ok
	}
	return 0, false
}

// ResolveDestination looks a named destination up in the catalog's Dests
// dictionary and in the Names/Dests name tree.
func (d *pdfDocument) ResolveDestination(name string) (index int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer recoverAs(&err, "resolve destination")
	root := d.r.Trailer().Key("Root")
	target := root.Key("Dests").Key(name)
	if target.IsNull() {
		target = lookupNameTree(root.Key("Names").Key("Dests"), name, map[string]bool{})
	}
	if target.IsNull() {
		return -1, fmt.Errorf("named destination %q: %w", name, apperrors.ErrNotFound)
	}
	index, ok := d.indexOf(explicitTarget(target))
	if !ok {
		return -1, fmt.Errorf("named destination %q does not point at a page", name)
	}
	return index, nil
}

func lookupNameTree(node pdf.Value, name string, seen map[string]bool) pdf.Value {
	if node.Kind() != pdf.Dict {
		return pdf.Value{}
	}
	key := node.String()
	if seen[key] {
		return pdf.Value{}
	}
	seen[key] = true
	names := node.Key("Names")
	for i := 0; i+1 < names.Len(); i += 2 {
		if names.Index(i).RawString() == name {
			return names.Index(i + 1)
		}
	}
	kids := node.Key("Kids")
	for i := 0; i < kids.Len(); i++ {
		if found := lookupNameTree(kids.Index(i), name, seen); !found.IsNull() {
			return found
		}
	}
	return pdf.Value{}
}

type pdfPage struct {
	doc *pdfDocument
	n   int
}

func (p *pdfPage) Number() int { return p.n }

func (p *pdfPage) Size() (float64, float64) {
	p.doc.mu.Lock()
	defer p.doc.mu.Unlock()
	w, h, err := p.mediaBox()
	if err != nil {
		return defaultPageWidth, defaultPageHeight
	}
	return w, h
}

func (p *pdfPage) mediaBox() (w, h float64, err error) {
	defer recoverAs(&err, "media box")
	for v := p.doc.r.Page(p.n).V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			w = box.Index(2).Float64() - box.Index(0).Float64()
			h = box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h, nil
			}
		}
	}
	return defaultPageWidth, defaultPageHeight, nil
}

func (p *pdfPage) Text() (string, error) {
	runs, err := p.runs()
	if err != nil {
		return "", err
	}
	lines := groupLines(runs)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.text())
	}
	return strings.Join(out, "\n"), nil
}

// Render paints the page background and the page's text runs at their
// positions. Glyph shapes come from a bitmap face, not the embedded fonts.
func (p *pdfPage) Render(ctx context.Context, dst draw.Image, vp dto.Viewport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if vp.Scale <= 0 {
		return fmt.Errorf("render page %d: scale must be positive", p.n)
	}
	_, pageH := p.Size()
	runs, err := p.runs()
	if err != nil {
		return err
	}
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)

	spacing := vp.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(color.Black), Face: faceFor(vp.FontFamily)}
	for _, line := range groupLines(runs) {
		// PDF space grows upwards; stretch line gaps from the top of the page.
		fromTop := (pageH - line.y) * spacing
		y := bounds.Min.Y + int(math.Round(fromTop*vp.Scale))
		if y < bounds.Min.Y || y > bounds.Max.Y+drawer.Face.Metrics().Height.Ceil() {
			continue
		}
		for i, run := range line.runs {
			dot := fixed.P(bounds.Min.X+int(math.Round(run.X*vp.Scale)), y)
			// Runs without glyph widths share one origin; keep them flowing.
			if i > 0 && dot.X < drawer.Dot.X {
				dot.X = drawer.Dot.X
			}
			drawer.Dot = dot
			drawer.DrawString(run.S)
		}
	}
	return nil
}

func (p *pdfPage) runs() (runs []pdf.Text, err error) {
	p.doc.mu.Lock()
	defer p.doc.mu.Unlock()
	defer recoverAs(&err, fmt.Sprintf("read page %d", p.n))
	page := p.doc.r.Page(p.n)
	if page.V.IsNull() {
		return nil, fmt.Errorf("pdf page %d is null", p.n)
	}
	return page.Content().Text, nil
}

type textLine struct {
	y    float64
	runs []pdf.Text
}

func (l textLine) text() string {
	var b strings.Builder
	var lastEnd float64
	for i, run := range l.runs {
		if i > 0 && run.X-lastEnd > run.FontSize*0.2 && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
		b.WriteString(run.S)
		lastEnd = run.X + run.W
	}
	return strings.TrimSpace(b.String())
}

// groupLines buckets runs sharing a baseline, top of the page first.
func groupLines(runs []pdf.Text) []textLine {
	var lines []textLine
	for _, run := range runs {
		if strings.TrimSpace(run.S) == "" && run.S != " " {
			continue
		}
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-run.Y) < 2 {
				lines[i].runs = append(lines[i].runs, run)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, textLine{y: run.Y, runs: []pdf.Text{run}})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	for _, line := range lines {
		sort.SliceStable(line.runs, func(i, j int) bool { return line.runs[i].X < line.runs[j].X })
	}
	return lines
}

func faceFor(family string) font.Face {
	switch strings.ToLower(family) {
	case "inconsolata", "mono":
		return inconsolata.Regular8x16
	case "inconsolata-bold", "bold":
		return inconsolata.Bold8x16
	default:
		return basicfont.Face7x13
	}
}

func recoverAs(err *error, op string) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("%s: %w: %v", op, apperrors.ErrDocumentUnreadable, p)
	}
}
