package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"MeridianWebserver/internal/domain"
)

type WebVitalsStore interface {
	AppendWebVital(ctx context.Context, v domain.WebVital) error
}

// VitalsService records browser performance beacons. Best-effort like the
// other submission writes.
type VitalsService struct {
	Store  WebVitalsStore
	Logger *slog.Logger
	Now    func() time.Time
}

type NewWebVital struct {
	Name   string
	Value  float64
	Rating string
	Page   string
}

func (s *VitalsService) Record(ctx context.Context, in NewWebVital) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.NewValidationError(map[string]string{"name": "required"})
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) || in.Value < 0 {
		return domain.NewValidationError(map[string]string{"value": "must be a non-negative number"})
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	v := domain.WebVital{
		Name:       name,
		Value:      in.Value,
		Rating:     strings.TrimSpace(in.Rating),
		Page:       strings.TrimSpace(in.Page),
		RecordedAt: now.UTC(),
	}
	if err := s.Store.AppendWebVital(ctx, v); err != nil {
		logger := s.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("web vital persist failed", "err", err)
	}
	return nil
}
