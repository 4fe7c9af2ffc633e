// Package fetcher opens survey workbooks from HTTP(S), FTP, or the local
// filesystem and decodes their sheets.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading a remote resource.
type Fetcher interface {
	// Download fetches the URL and returns the response body. The caller
	// must close it.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}
