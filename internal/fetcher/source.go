package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// SourceKind selects where a workbook is read from.
type SourceKind string

const (
	// SourceRemote fetches the workbook from an http, https or ftp URL.
	SourceRemote SourceKind = "remote"
	// SourceLocal reads the workbook from a filesystem path.
	SourceLocal SourceKind = "local"
)

// Source identifies one workbook location.
type Source struct {
	Kind     SourceKind
	Location string
}

func (s Source) String() string {
	return string(s.Kind) + ":" + s.Location
}

// Validate checks that the source is usable before any I/O happens.
func (s Source) Validate() error {
	if strings.TrimSpace(s.Location) == "" {
		return eris.New("source: empty location")
	}
	switch s.Kind {
	case SourceLocal:
		return nil
	case SourceRemote:
		u, err := url.Parse(s.Location)
		if err != nil {
			return eris.Wrap(err, "source: parse url")
		}
		switch u.Scheme {
		case "http", "https", "ftp":
			return nil
		default:
			return eris.Errorf("source: unsupported scheme %q", u.Scheme)
		}
	default:
		return eris.Errorf("source: unknown kind %q", s.Kind)
	}
}

// Opener resolves a Source to a readable body.
type Opener struct {
	HTTP Fetcher
	FTP  Fetcher
}

// NewOpener creates an Opener backed by the default HTTP and FTP fetchers.
func NewOpener(httpOpts HTTPOptions, ftpOpts FTPOptions) *Opener {
	return &Opener{
		HTTP: NewHTTPFetcher(httpOpts),
		FTP:  NewFTPFetcher(ftpOpts),
	}
}

// Open returns the workbook body for src. The caller must close it on every
// path; Open itself releases anything it acquired when it fails.
func (o *Opener) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	if src.Kind == SourceLocal {
		f, err := os.Open(src.Location)
		if err != nil {
			return nil, eris.Wrapf(err, "source: open %s", src.Location)
		}
		return f, nil
	}

	if strings.HasPrefix(strings.ToLower(src.Location), "ftp://") {
		return o.FTP.Download(ctx, src.Location)
	}
	return o.HTTP.Download(ctx, src.Location)
}
