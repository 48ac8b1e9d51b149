package in

import (
	"context"

	"folio/internal/modules/narration/dto"
)

type Usecase interface {
	// Toggle starts reading the current page aloud, or stops reading.
	Toggle(ctx context.Context) (dto.StatusOutput, error)
	Stop(ctx context.Context) dto.StatusOutput
	Status() dto.StatusOutput
	// Completed fires whenever a speech ends, so callers can refresh Status.
	Completed() <-chan struct{}
}
