// filepath: internal/services/info_service.go
package services

import (
	"cidcheck/internal/models"
	"context"
	"fmt"
	"time"
)

const ServiceName = "cidcheck"

var _ InfoService = (*infoService)(nil)

// Pinger is satisfied by the repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

type infoService struct {
	DB           Pinger
	Version      string
	StartTime    time.Time
	DriveEnabled bool
}

// NewInfoService creates a new InfoService.
func NewInfoService(db Pinger, version string, startTime time.Time, driveEnabled bool) *infoService {
	return &infoService{
		DB:           db,
		Version:      version,
		StartTime:    startTime,
		DriveEnabled: driveEnabled,
	}
}

// GetInfo retrieves the application information.
func (s *infoService) GetInfo() models.Info {
	return models.Info{
		ServiceName: ServiceName,
		Version:     s.Version,
		UptimeSince: s.StartTime,
		DriveReady:  s.DriveEnabled,
	}
}

// CheckHealth pings the database. The returned Health is filled in either case.
func (s *infoService) CheckHealth(ctx context.Context) (models.Health, error) {
	h := models.Health{Status: "ok", Timestamp: time.Now().UTC(), Version: s.Version}
	if err := s.DB.Ping(ctx); err != nil {
		h.Status = "unavailable"
		return h, fmt.Errorf("%w: database: %v", ErrUnavailable, err)
	}
	return h, nil
}
