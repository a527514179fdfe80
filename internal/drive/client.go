// filepath: internal/drive/client.go
// Package drive wraps the Google Drive v3 API calls used to mirror a folder listing.
package drive

import (
	"cidcheck/internal/config"
	"cidcheck/internal/logging"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	FolderMimeType       = "application/vnd.google-apps.folder"
	nativeMimeTypePrefix = "application/vnd.google-apps."
	myDriveRoot          = "root"
	folderCacheTTL       = 10 * time.Minute
)

var (
	ErrNotConfigured  = errors.New("google drive credentials are not configured")
	ErrFolderNotFound = errors.New("folder not found")
)

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Item is one child of a Drive folder.
type Item struct {
	ID           string
	Name         string
	MimeType     string
	Size         *int64 // nil for Google-native documents
	ModifiedTime time.Time
}

// IsFolder reports whether the item is a Drive folder.
func (i Item) IsFolder() bool {
	return i.MimeType == FolderMimeType
}

// Page is one page of a folder listing. An empty NextPageToken means the listing is complete.
type Page struct {
	Items         []Item
	NextPageToken string
}

// Client lists folders of a single Drive account.
type Client struct {
	svc           *drive.Service
	sharedDriveID string
	pageSize      int64
	folders       *cache.Cache
}

// NewClient builds a Client authenticated with the configured refresh token.
func NewClient(ctx context.Context, cfg config.DriveConfig) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, ErrNotConfigured
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveReadonlyScope},
	}
	ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return NewFromService(svc, cfg), nil
}

// NewFromService wraps an existing Drive service.
func NewFromService(svc *drive.Service, cfg config.DriveConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	return &Client{
		svc:           svc,
		sharedDriveID: cfg.SharedDriveID,
		pageSize:      pageSize,
		folders:       cache.New(folderCacheTTL, 2*folderCacheTTL),
	}
}

// RootID is the id that an empty folder path resolves to.
func (c *Client) RootID() string {
	if c.sharedDriveID != "" {
		return c.sharedDriveID
	}
	return myDriveRoot
}

func (c *Client) listCall(ctx context.Context, q string) *drive.FilesListCall {
	call := c.svc.Files.List().
		Q(q).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx)
	if c.sharedDriveID != "" {
		call = call.Corpora("drive").DriveId(c.sharedDriveID)
	}
	return call
}

// ListChildren returns one page of the non-trashed children of folderID.
func (c *Client) ListChildren(ctx context.Context, folderID, pageToken string) (*Page, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))
	call := c.listCall(ctx, q).
		PageSize(c.pageSize).
		Fields(googleapi.Field("nextPageToken, files(id, name, size, mimeType, modifiedTime)"))
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", folderID, err)
	}

	page := &Page{NextPageToken: res.NextPageToken, Items: make([]Item, 0, len(res.Files))}
	for _, f := range res.Files {
		page.Items = append(page.Items, toItem(f))
	}
	return page, nil
}

// ResolveFolder walks a slash separated path from the root one segment at a
// time and returns the id of the final folder.
func (c *Client) ResolveFolder(ctx context.Context, path string) (string, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return c.RootID(), nil
	}

	key := strings.Join(segments, "/")
	if id, ok := c.folders.Get(key); ok {
		return id.(string), nil
	}

	current := c.RootID()
	for _, name := range segments {
		q := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
			escapeQuery(name), escapeQuery(current), FolderMimeType)
		res, err := c.listCall(ctx, q).Fields(googleapi.Field("files(id, name)")).Do()
		if err != nil {
			return "", fmt.Errorf("failed to look up folder %q: %w", name, err)
		}
		if len(res.Files) == 0 {
			return "", fmt.Errorf("%w: %q in %q", ErrFolderNotFound, name, path)
		}
		current = res.Files[0].Id
	}

	logging.Log.Debugf("Resolved Drive folder %q to %s", path, current)
	c.folders.Set(key, current, cache.DefaultExpiration)
	return current, nil
}

func toItem(f *drive.File) Item {
	item := Item{ID: f.Id, Name: f.Name, MimeType: f.MimeType}
	if !strings.HasPrefix(f.MimeType, nativeMimeTypePrefix) {
		size := f.Size
		item.Size = &size
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			item.ModifiedTime = t
		} else {
			logging.Log.Warnf("Ignoring unparsable modifiedTime %q on %s", f.ModifiedTime, f.Id)
		}
	}
	return item
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}
