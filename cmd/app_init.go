package main

import (
	"github.com/rotisserie/eris"

	"github.com/hermecp/mapacuestionario/internal/analysis"
	"github.com/hermecp/mapacuestionario/internal/config"
	"github.com/hermecp/mapacuestionario/internal/fetcher"
	"github.com/hermecp/mapacuestionario/internal/present"
	"github.com/hermecp/mapacuestionario/internal/session"
	"github.com/hermecp/mapacuestionario/internal/survey"
)

// newLoader wires the configured source into a survey loader.
func newLoader(c *config.Config) (*survey.Loader, error) {
	src := fetcher.Source{Kind: fetcher.SourceKind(c.Source.Kind), Location: c.Source.Location}
	if err := src.Validate(); err != nil {
		return nil, eris.Wrap(err, "source")
	}

	opener := fetcher.NewOpener(
		fetcher.HTTPOptions{UserAgent: c.Source.UserAgent, Timeout: c.Source.Timeout()},
		fetcher.FTPOptions{Timeout: c.Source.Timeout()},
	)
	return survey.NewLoader(opener, survey.LoaderConfig{
		Source:          src,
		SheetIndex:      c.Source.SheetIndex,
		LatitudeColumn:  c.Survey.LatitudeColumn,
		LongitudeColumn: c.Survey.LongitudeColumn,
		ExcludedColumns: c.Survey.ExcludedColumns,
		MaxBytes:        c.Source.MaxBytes,
	}), nil
}

// sessionOptions derives selection settings from the config.
func sessionOptions(c *config.Config) (session.Options, error) {
	order, err := analysis.ParseOrder(c.Analysis.Order)
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Order:    order,
		Fallback: analysis.DefaultFallbackColor,
		Map: present.MapView{
			CenterLat: c.Map.CenterLat,
			CenterLon: c.Map.CenterLon,
			Zoom:      c.Map.Zoom,
		},
	}, nil
}

func newExporter(c *config.Config) *present.Exporter {
	return present.NewExporter(present.NewRenderer(c.Export.ImagesEnabled, c.Export.DPI))
}
