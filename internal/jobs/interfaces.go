package jobs

import (
	"context"

	"github.com/ytget/clipshr/internal/model"
)

// Processor runs the post-processing stages on a fetched file
type Processor interface {
	Run(ctx context.Context, req model.PipelineRequest) (*model.PipelineResult, error)
}

// HistoryStore persists finished jobs
type HistoryStore interface {
	Append(rec model.HistoryRecord) error
	List() ([]model.HistoryRecord, error)
	Delete(filename string) error
	Clear() (int, error)
}
