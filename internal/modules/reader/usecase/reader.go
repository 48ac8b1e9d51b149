package usecase

import (
	"context"
	"fmt"

	"folio/internal/modules/reader/domain"
	"folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
	"folio/internal/modules/reader/service"
	apperrors "folio/internal/platform/errors"
)

type Interactor struct {
	svc *service.ReaderService
}

func NewInteractor(svc *service.ReaderService) readerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(ctx context.Context, documentID string) (dto.SessionOutput, error) {
	if _, err := i.svc.Open(ctx, documentID); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

func (i *Interactor) Close(ctx context.Context) error {
	return i.svc.Close(ctx)
}

func (i *Interactor) GoTo(ctx context.Context, page int) (dto.SessionOutput, error) {
	if _, err := i.svc.GoTo(ctx, page); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

func (i *Interactor) Next(ctx context.Context) (dto.SessionOutput, error) {
	if _, err := i.svc.Next(ctx); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

func (i *Interactor) Prev(ctx context.Context) (dto.SessionOutput, error) {
	if _, err := i.svc.Prev(ctx); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

func (i *Interactor) JumpToChapter(ctx context.Context, index int) (dto.SessionOutput, error) {
	state, _, ok := i.svc.Snapshot()
	if ok && (index < 0 || index >= len(state.Chapters)) {
		return dto.SessionOutput{}, fmt.Errorf("%w: chapter %d of %d", apperrors.ErrInvalidInput, index, len(state.Chapters))
	}
	if _, err := i.svc.JumpToChapter(ctx, index); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

// Apply folds every change into one settings value so the surfaces see a
// single render pass.
func (i *Interactor) Apply(ctx context.Context, changes ...dto.Change) (dto.SessionOutput, error) {
	_, err := i.svc.Update(ctx, func(current domain.Display) (domain.Display, error) {
		settings := toSettings(current)
		for _, change := range changes {
			change(&settings)
		}
		return toDisplay(settings)
	})
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

func (i *Interactor) PointerDown(_ context.Context, x, width float64) dto.SessionOutput {
	i.svc.PointerDown(x, width)
	return i.Session()
}

func (i *Interactor) PointerMove(_ context.Context, x float64) dto.SessionOutput {
	i.svc.PointerMove(x)
	return i.Session()
}

func (i *Interactor) PointerUp(ctx context.Context) (dto.SessionOutput, error) {
	if _, err := i.svc.PointerUp(ctx); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

func (i *Interactor) PointerLeave(ctx context.Context) (dto.SessionOutput, error) {
	if _, err := i.svc.PointerLeave(ctx); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Session(), nil
}

func (i *Interactor) SetOverlay(_ context.Context, open bool) {
	i.svc.SetOverlay(open)
}

func (i *Interactor) CurrentPageText(ctx context.Context) (int, string, error) {
	return i.svc.CurrentPageText(ctx)
}

func (i *Interactor) Session() dto.SessionOutput {
	state, gesture, ok := i.svc.Snapshot()
	out := dto.SessionOutput{Settings: toSettings(state.Display)}
	if !ok {
		return out
	}
	out.Open = true
	out.DocumentID = state.DocumentID
	out.Title = state.Title
	out.PageCount = state.PageCount
	out.CurrentPage = state.CurrentPage
	if second, ok := state.SecondPage(); ok {
		out.SecondPage = second
	}
	out.ChapterIndex = state.ChapterAt()
	out.Chapters = make([]dto.Chapter, 0, len(state.Chapters))
	for _, c := range state.Chapters {
		out.Chapters = append(out.Chapters, dto.Chapter{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	out.Gesture = dto.GestureOutput{Active: gesture.Active, Direction: gesture.Direction.String(), Offset: gesture.Offset}
	return out
}

func (i *Interactor) Frames() []dto.FrameOutput {
	var frames []dto.FrameOutput
	for n, surface := range i.svc.Surfaces() {
		page, img, shown := surface.Snapshot()
		if !shown {
			continue
		}
		frames = append(frames, dto.FrameOutput{Surface: n, Page: page, Image: img})
	}
	return frames
}

func toSettings(d domain.Display) dto.Settings {
	return dto.Settings{
		Zoom:        d.Zoom,
		Layout:      d.Layout.String(),
		Theme:       d.Theme.String(),
		Margins:     d.Margins,
		LineSpacing: d.LineSpacing,
		FontFamily:  d.FontFamily,
	}
}

func toDisplay(s dto.Settings) (domain.Display, error) {
	layout, ok := domain.ParseLayout(s.Layout)
	if !ok {
		return domain.Display{}, fmt.Errorf("%w: unknown layout %q", apperrors.ErrInvalidInput, s.Layout)
	}
	theme, ok := domain.ParseTheme(s.Theme)
	if !ok {
		return domain.Display{}, fmt.Errorf("%w: unknown theme %q", apperrors.ErrInvalidInput, s.Theme)
	}
	return domain.Display{
		Zoom:        s.Zoom,
		Layout:      layout,
		Theme:       theme,
		Margins:     s.Margins,
		LineSpacing: s.LineSpacing,
		FontFamily:  s.FontFamily,
	}, nil
}
