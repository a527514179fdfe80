// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import (
	"time"
)

// CID statuses stored in the cids table.
const (
	CIDStatusFound    = "found"
	CIDStatusNotFound = "not_found"
	CIDStatusPending  = "pending"
)

// Keys of the system_config table.
const (
	ConfigLastSyncTime     = "last_sync_time"
	ConfigSyncInProgress   = "sync_in_progress"
	ConfigTotalFilesSynced = "total_files_synced"
)

// Info represents general information about the service.
type Info struct {
	ServiceName string    `json:"service_name"`
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
	DriveReady  bool      `json:"drive_configured"`
}

// Health is returned by the health endpoint.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// File is one mirrored Drive file as stored in the files table.
type File struct {
	ID           int64     `json:"id"`
	FileID       string    `json:"file_id"`
	FileName     string    `json:"file_name"`
	FilePath     string    `json:"file_path"`
	FileSize     *int64    `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	ModifiedTime *time.Time `json:"modified_time"`
	CreatedTime  time.Time `json:"created_time"`
	UpdatedTime  time.Time `json:"updated_time"`
}

// FileRecord is the flat record collected from Drive during a sync.
type FileRecord struct {
	ID           string
	Name         string
	Path         string
	Size         *int64
	MimeType     string
	ModifiedTime time.Time
}

// FileListQuery holds the parameters of a paged file listing.
type FileListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Pagination describes the page returned by a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// FileList is the response of the file listing endpoint.
type FileList struct {
	Files      []File     `json:"files"`
	Pagination Pagination `json:"pagination"`
}

// FileMatch is a file whose name contains a checked CID.
type FileMatch struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
}

// CIDRecord is a row of the cids table.
type CIDRecord struct {
	CID             string     `json:"cid"`
	FileID          *string    `json:"file_id"`
	Status          string     `json:"status"`
	FirstFoundTime  *time.Time `json:"first_found_time"`
	LastCheckedTime time.Time  `json:"last_checked_time"`
	CreatedTime     time.Time  `json:"created_time"`
}

// CheckCIDsPayload is the body of POST /api/check-cids.
type CheckCIDsPayload struct {
	CIDs []string `json:"cids"`
}

// FoundCID is a CID that matched at least one file name.
type FoundCID struct {
	CID   string      `json:"cid"`
	Files []FileMatch `json:"files"`
}

// CIDCheckResult partitions a checked batch into found and not found CIDs.
type CIDCheckResult struct {
	Total         int        `json:"total"`
	Found         []FoundCID `json:"found"`
	NotFound      []string   `json:"not_found"`
	FoundCount    int        `json:"found_count"`
	NotFoundCount int        `json:"not_found_count"`
}

// QueryHistory is one row of the append-only query_history table.
type QueryHistory struct {
	ID           int64     `json:"id"`
	QueryText    string    `json:"query_text"`
	TotalCIDs    int       `json:"total_cids"`
	FoundCIDs    int       `json:"found_cids"`
	NotFoundCIDs int       `json:"not_found_cids"`
	QueryTime    time.Time `json:"query_time"`
	IPAddress    string    `json:"ip_address"`
}

// SyncStatus reflects the sync related keys of the system_config table.
type SyncStatus struct {
	InProgress       bool       `json:"sync_in_progress"`
	LastSyncTime     *time.Time `json:"last_sync_time"`
	TotalFilesSynced int        `json:"total_files_synced"`
}

// Stats aggregates counters over all tables.
type Stats struct {
	TotalFiles     int        `json:"total_files"`
	TotalSizeBytes int64      `json:"total_size_bytes"`
	TotalSize      string     `json:"total_size"`
	TotalCIDs      int        `json:"total_cids"`
	FoundCIDs      int        `json:"found_cids"`
	NotFoundCIDs   int        `json:"not_found_cids"`
	LastSyncTime   *time.Time `json:"last_sync_time"`
	SyncInProgress bool       `json:"sync_in_progress"`
	FilesSynced    int        `json:"total_files_synced"`
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	SyncID      string        `json:"sync_id"`
	FolderID    string        `json:"folder_id"`
	FilesFound  int           `json:"files_found"`
	FilesSynced int           `json:"files_synced"`
	FilesFailed int           `json:"files_failed"`
	CIDsFlipped int64         `json:"cids_flipped"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

// SyncAccepted is returned when a background sync has been started.
type SyncAccepted struct {
	Message string `json:"message"`
	SyncID  string `json:"sync_id"`
}
