package service_test

import (
	"context"
	"image"
	"image/draw"
	"testing"
	"time"

	docdto "folio/internal/modules/document/dto"
	readerout "folio/internal/modules/reader/adapter/out"
	"folio/internal/modules/reader/domain"
	"folio/internal/modules/reader/service"
)

type stubHandle struct{ renders int }

func (h *stubHandle) PageCount() int { return 3 }
func (h *stubHandle) Close() error   { return nil }
func (h *stubHandle) Page(n int) (docdto.Page, error) {
	return stubPage{h: h, n: n}, nil
}

type stubPage struct {
	h *stubHandle
	n int
}

func (p stubPage) Number() int              { return p.n }
func (p stubPage) Size() (float64, float64) { return 10, 10 }
func (p stubPage) Text() (string, error)    { return "", nil }
func (p stubPage) Render(context.Context, draw.Image, docdto.Viewport) error {
	p.h.renders++
	return nil
}

func TestStaleRenderNeverOverwritesNewer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := service.NewRenderManager(readerout.NewBitmapCache(time.Minute, time.Minute), nil)
	surface := readerout.NewMemorySurface()
	h := &stubHandle{}
	req := func(page int) service.PageRequest {
		return service.PageRequest{DocumentID: "d", Handle: h, Page: page, Display: domain.DefaultDisplay(1)}
	}

	older := m.Reserve(surface)
	newer := m.Reserve(surface)
	if err := m.Render(ctx, newer, req(2)); err != nil {
		t.Fatalf("render newer: %v", err)
	}
	if err := m.Render(ctx, older, req(1)); err != nil {
		t.Fatalf("render older: %v", err)
	}
	if page, _, _ := surface.Snapshot(); page != 2 {
		t.Fatalf("expected page 2 to stay visible, got %d", page)
	}
	m.Blank(older)
	if _, _, ok := surface.Snapshot(); !ok {
		t.Fatalf("stale blank cleared the surface")
	}
}

func TestCachedPagesAreNotRasterizedAgain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := service.NewRenderManager(readerout.NewBitmapCache(time.Minute, time.Minute), nil)
	surface := readerout.NewMemorySurface()
	h := &stubHandle{}
	display := domain.DefaultDisplay(1)
	for i := 0; i < 3; i++ {
		if err := m.Render(ctx, m.Reserve(surface), service.PageRequest{DocumentID: "d", Handle: h, Page: 1, Display: display}); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	if h.renders != 1 {
		t.Fatalf("expected one rasterization, got %d", h.renders)
	}
	display.Zoom = 2
	if err := m.Render(ctx, m.Reserve(surface), service.PageRequest{DocumentID: "d", Handle: h, Page: 1, Display: display}); err != nil {
		t.Fatalf("render zoomed: %v", err)
	}
	if h.renders != 2 {
		t.Fatalf("zoom change must rasterize, got %d", h.renders)
	}
	m.Purge("d")
	display.Zoom = 1
	if err := m.Render(ctx, m.Reserve(surface), service.PageRequest{DocumentID: "d", Handle: h, Page: 1, Display: display}); err != nil {
		t.Fatalf("render after purge: %v", err)
	}
	if h.renders != 3 {
		t.Fatalf("purged page must rasterize again, got %d", h.renders)
	}
	if _, img, _ := surface.Snapshot(); img.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("unexpected surface size %v", img.Bounds())
	}
}
