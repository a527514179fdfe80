// filepath: cmd/cidcheck/main.go
package main

import (
	"cidcheck/internal/cli"
	"embed"
	"io/fs"
	"log"
)

//go:embed all:frontend
var frontendFS embed.FS

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title CID Check API
// @version 1.0.0
// @description Mirrors a Google Drive folder listing and checks CIDs against the synced file names.
// @BasePath /api
// @schemes http

func main() {
	content, err := fs.Sub(frontendFS, "frontend")
	if err != nil {
		log.Fatalf("Failed to create sub FS for frontend: %v", err)
	}
	cli.Execute(content, version)
}
