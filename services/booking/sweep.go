package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bookflow/models"
	"bookflow/utils"
)

// SweepExpiredHolds transitions every lapsed hold to expired and returns the
// bookings it expired. Running it twice with the same now is a no-op the
// second time: each transition is conditional on status=held, so a hold can
// only be expired once. Readers already treat lapsed holds as free, making
// the sweep pure cleanup.
func (s *DefaultBookingService) SweepExpiredHolds(ctx context.Context, now time.Time) ([]models.Booking, error) {
	logger := utils.GetLogger()

	lapsed, err := s.Repo.FindExpiredHeld(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	var expired []models.Booking
	for _, b := range lapsed {
		swept, err := s.Repo.MarkExpired(ctx, b.ID, now)
		if err != nil {
			logger.Error("failed to expire hold", zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if !swept {
			// Another writer (confirm, reject, or a concurrent sweep) beat us.
			continue
		}
		b.Status = models.BookingExpired
		b.UpdatedAt = now
		expired = append(expired, b)
	}

	if len(expired) > 0 {
		logger.Info("expired holds swept", zap.Int("count", len(expired)), zap.Time("now", now))
	}
	return expired, nil
}
