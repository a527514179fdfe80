// filepath: internal/services/cid_service.go
package services

import (
	"cidcheck/internal/logging"
	"cidcheck/internal/models"
	"cidcheck/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxCIDLength matches the width of the cids.cid column, in characters.
const MaxCIDLength = 50

var _ CIDService = (*cidService)(nil)

type cidService struct {
	Repo     *repository.Repository
	Auditor  Auditor
	MaxBatch int
	now      func() time.Time
}

// NewCIDService creates a new CIDService.
func NewCIDService(repo *repository.Repository, auditor Auditor, maxBatch int) *cidService {
	return &cidService{
		Repo:     repo,
		Auditor:  auditor,
		MaxBatch: maxBatch,
		now:      time.Now,
	}
}

// normalizeCIDs trims every entry, drops blanks and keeps the first occurrence of duplicates.
func normalizeCIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// CheckCIDs matches each CID against the mirrored file names, persists its
// state and appends the batch to the query history.
func (s *cidService) CheckCIDs(ctx context.Context, raw []string, clientIP string) (*models.CIDCheckResult, error) {
	cids := normalizeCIDs(raw)
	if len(cids) == 0 {
		return nil, fmt.Errorf("%w: no CIDs provided", ErrValidation)
	}
	if s.MaxBatch > 0 && len(cids) > s.MaxBatch {
		return nil, fmt.Errorf("%w: %d CIDs exceeds the batch limit of %d", ErrValidation, len(cids), s.MaxBatch)
	}
	for _, c := range cids {
		if utf8.RuneCountInString(c) > MaxCIDLength {
			return nil, fmt.Errorf("%w: CID %q is longer than %d characters", ErrValidation, c, MaxCIDLength)
		}
	}

	result := &models.CIDCheckResult{
		Total:    len(cids),
		Found:    make([]models.FoundCID, 0),
		NotFound: make([]string, 0),
	}

	for _, cid := range cids {
		now := s.now()
		matches, err := s.Repo.FindFilesContaining(ctx, cid)
		if err != nil {
			return nil, err
		}

		if len(matches) > 0 {
			if err := s.Repo.MarkCIDFound(ctx, cid, matches[0].FileID, now); err != nil {
				return nil, err
			}
			result.Found = append(result.Found, models.FoundCID{CID: cid, Files: matches})
			continue
		}

		if err := s.Repo.MarkCIDNotFound(ctx, cid, now); err != nil {
			return nil, err
		}
		result.NotFound = append(result.NotFound, cid)
	}
	result.FoundCount = len(result.Found)
	result.NotFoundCount = len(result.NotFound)

	_, err := s.Repo.InsertQueryHistory(ctx, models.QueryHistory{
		QueryText:    strings.Join(raw, ","),
		TotalCIDs:    result.Total,
		FoundCIDs:    result.FoundCount,
		NotFoundCIDs: result.NotFoundCount,
		QueryTime:    s.now(),
		IPAddress:    clientIP,
	})
	if err != nil {
		return nil, err
	}

	logging.Log.Debugf("Checked %d CIDs: %d found, %d not found", result.Total, result.FoundCount, result.NotFoundCount)
	if s.Auditor != nil {
		s.Auditor.Log(ctx, "cid.check", clientIP, fmt.Sprintf("cids:%d", result.Total), map[string]interface{}{
			"found":     result.FoundCount,
			"not_found": result.NotFoundCount,
		})
	}
	return result, nil
}

// GetCID returns the stored state of a single CID.
func (s *cidService) GetCID(ctx context.Context, cid string) (*models.CIDRecord, error) {
	cid = strings.TrimSpace(cid)
	if cid == "" {
		return nil, fmt.Errorf("%w: cid is required", ErrValidation)
	}
	rec, err := s.Repo.GetCID(ctx, cid)
	if errors.Is(err, repository.ErrCIDNotFound) {
		return nil, fmt.Errorf("%w: cid %s", ErrNotFound, cid)
	}
	return rec, err
}
