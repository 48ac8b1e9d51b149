package service

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	docdto "folio/internal/modules/document/dto"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
)

// PageRequest names everything that determines the pixels of one page.
// Theme is deliberately absent; it is applied as a display filter.
type PageRequest struct {
	DocumentID string
	Handle     docdto.Handle
	Page       int
	Display    domain.Display
}

func (r PageRequest) cacheKey() string {
	d := r.Display
	return fmt.Sprintf("%s|%d|%.4f|%d|%.2f|%s", r.DocumentID, r.Page, d.Zoom, d.Margins, d.LineSpacing, d.FontFamily)
}

// Ticket orders render requests per surface. Only the newest ticket of a
// surface may change what it shows, whatever order renders complete in.
type Ticket struct {
	surface readerout.Surface
	seq     uint64
}

type RenderManager struct {
	cache  readerout.BitmapCache
	logger *slog.Logger

	mu     sync.Mutex
	seq    uint64
	latest map[readerout.Surface]uint64
	filter domain.Filter
}

func NewRenderManager(cache readerout.BitmapCache, logger *slog.Logger) *RenderManager {
	return &RenderManager{cache: cache, logger: logger, latest: map[readerout.Surface]uint64{}}
}

// Reserve must be called in request order, typically while the caller still
// holds the state the request was built from.
func (m *RenderManager) Reserve(surface readerout.Surface) Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.latest[surface] = m.seq
	return Ticket{surface: surface, seq: m.seq}
}

// Render rasterizes the page, or takes it from the cache, and presents it if
// t is still the newest ticket of its surface. On failure the surface keeps
// its last good frame.
func (m *RenderManager) Render(ctx context.Context, t Ticket, req PageRequest) error {
	bitmap, err := m.bitmap(ctx, req)
	if err != nil {
		m.logger.Warn("render page",
			slog.String("document", req.DocumentID),
			slog.Int("page", req.Page),
			slog.Float64("zoom", req.Display.Zoom),
			slog.Any("err", err))
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest[t.surface] != t.seq {
		m.logger.Debug("drop stale render", slog.Int("page", req.Page))
		return nil
	}
	t.surface.Present(readerout.Frame{Page: req.Page, Bitmap: bitmap, Filter: m.filter})
	return nil
}

func (m *RenderManager) Blank(t Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest[t.surface] == t.seq {
		t.surface.Clear()
	}
}

// SetFilter switches the display filter of every surface without touching
// their bitmaps.
func (m *RenderManager) SetFilter(filter domain.Filter, surfaces ...readerout.Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = filter
	for _, s := range surfaces {
		s.SetFilter(filter)
	}
}

func (m *RenderManager) Purge(documentID string) {
	m.cache.Purge(documentID)
}

func (m *RenderManager) bitmap(ctx context.Context, req PageRequest) (*image.RGBA, error) {
	key := req.cacheKey()
	if bitmap, ok := m.cache.Get(key); ok {
		return bitmap, nil
	}
	page, err := req.Handle.Page(req.Page)
	if err != nil {
		return nil, err
	}
	w, h := page.Size()
	vp, err := domain.ViewportFor(w, h, req.Display.Zoom)
	if err != nil {
		return nil, err
	}
	margin := req.Display.Margins
	bitmap := image.NewRGBA(image.Rect(0, 0, vp.Width+2*margin, vp.Height+2*margin))
	draw.Draw(bitmap, bitmap.Bounds(), image.White, image.Point{}, draw.Src)
	area := bitmap.SubImage(image.Rect(margin, margin, margin+vp.Width, margin+vp.Height)).(*image.RGBA)
	err = page.Render(ctx, area, docdto.Viewport{
		Width:       vp.Width,
		Height:      vp.Height,
		Scale:       vp.Scale,
		FontFamily:  req.Display.FontFamily,
		LineSpacing: req.Display.LineSpacing,
	})
	if err != nil {
		return nil, fmt.Errorf("rasterize page %d: %w", req.Page, err)
	}
	m.cache.Put(key, bitmap)
	return bitmap, nil
}
