package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/cache"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

// SurveyLister lists the surveys whose counts are worth keeping warm.
type SurveyLister interface {
	RecentlyUpdated(ctx context.Context, since time.Time) ([]models.Survey, error)
}

// ResponseCounter derives a fresh response count for one survey.
type ResponseCounter interface {
	CountBySurvey(ctx context.Context, surveyID string) (int64, error)
}

// CountWarmer periodically re-derives response counts for recently active
// surveys and pushes them into the cache, so dashboard loads hit warm
// entries. Purely an optimization: a cold cache only costs a count query.
type CountWarmer struct {
	log       *zap.Logger
	surveys   SurveyLister
	responses ResponseCounter
	counts    *cache.CountCache
	window    time.Duration
}

func NewCountWarmer(log *zap.Logger, surveys SurveyLister, responses ResponseCounter, counts *cache.CountCache) *CountWarmer {
	return &CountWarmer{
		log:       log,
		surveys:   surveys,
		responses: responses,
		counts:    counts,
		window:    24 * time.Hour,
	}
}

// Start runs the warming loop in a goroutine until ctx is cancelled.
func (w *CountWarmer) Start(ctx context.Context) {
	w.log.Info("Starting response count warmer")
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.log.Info("Response count warmer stopped")
				return
			case <-ticker.C:
				w.warm(ctx)
			}
		}
	}()
}

func (w *CountWarmer) warm(ctx context.Context) {
	surveys, err := w.surveys.RecentlyUpdated(ctx, time.Now().UTC().Add(-w.window))
	if err != nil {
		w.log.Error("Failed to list surveys for count warming", zap.Error(err))
		return
	}

	for _, survey := range surveys {
		count, err := w.responses.CountBySurvey(ctx, survey.ID)
		if err != nil {
			w.log.Error("Failed to derive response count", zap.Error(err), zap.String("surveyID", survey.ID))
			continue
		}
		w.counts.SetResponseCount(ctx, survey.ID, count)
	}
	w.log.Debug("Warmed response counts", zap.Int("surveys", len(surveys)))
}
