// filepath: internal/repository/utils.go
package repository

import (
	"cidcheck/internal/models"
	"database/sql"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term in wildcards, escaping LIKE metacharacters.
// Queries using it must declare ESCAPE '\'.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

var fileColumns = []string{
	"id", "file_id", "file_name", "file_path", "file_size", "mime_type",
	"modified_time", "created_time", "updated_time",
}

func scanFile(row rowScanner) (models.File, error) {
	var (
		f        models.File
		size     sql.NullInt64
		mime     sql.NullString
		modified sql.NullTime
	)
	err := row.Scan(&f.ID, &f.FileID, &f.FileName, &f.FilePath, &size, &mime, &modified, &f.CreatedTime, &f.UpdatedTime)
	if err != nil {
		return f, err
	}
	if size.Valid {
		v := size.Int64
		f.FileSize = &v
	}
	f.MimeType = mime.String
	if modified.Valid {
		t := modified.Time
		f.ModifiedTime = &t
	}
	return f, nil
}

var cidColumns = []string{"cid", "file_id", "status", "first_found_time", "last_checked_time", "created_time"}

func scanCID(row rowScanner) (models.CIDRecord, error) {
	var (
		c       models.CIDRecord
		fileID  sql.NullString
		firstAt sql.NullTime
	)
	if err := row.Scan(&c.CID, &fileID, &c.Status, &firstAt, &c.LastCheckedTime, &c.CreatedTime); err != nil {
		return c, err
	}
	if fileID.Valid {
		v := fileID.String
		c.FileID = &v
	}
	if firstAt.Valid {
		v := firstAt.Time
		c.FirstFoundTime = &v
	}
	return c, nil
}
