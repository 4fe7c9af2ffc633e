package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hermecp/mapacuestionario/internal/present"
	"github.com/hermecp/mapacuestionario/internal/session"
)

var (
	exportColumn  string
	exportFormats []string
	exportOut     string
	exportVerify  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the frequency table, chart and point layer of one question to files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		formats := make([]present.Format, 0, len(exportFormats))
		for _, name := range exportFormats {
			f, err := present.ParseFormat(name)
			if err != nil {
				return err
			}
			if !slices.Contains(formats, f) {
				formats = append(formats, f)
			}
		}

		loader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		opts, err := sessionOptions(cfg)
		if err != nil {
			return err
		}
		ds, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}

		view, err := session.New("cli", ds, opts).Select(exportColumn)
		if err != nil {
			return err
		}

		paths, err := exportView(cmd.Context(), newExporter(cfg), view, formats, exportOut)
		if err != nil {
			return err
		}
		if exportVerify && slices.Contains(formats, present.FormatCSV) {
			if err := verifyCSV(filepath.Join(exportOut, present.FileName(view.Column, present.FormatCSV)), view); err != nil {
				return err
			}
		}

		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

// exportView writes view in every format into dir concurrently and returns
// the written paths in format order.
func exportView(ctx context.Context, exporter *present.Exporter, view *session.View, formats []present.Format, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create %s", dir)
	}

	for _, f := range formats {
		if !exporter.Available(f) {
			return nil, eris.Wrapf(present.ErrBackendUnavailable, "export: format %s", f)
		}
	}

	paths := make([]string, len(formats))
	in := view.ExportInput()

	g, _ := errgroup.WithContext(ctx)
	for i, f := range formats {
		paths[i] = filepath.Join(dir, present.FileName(view.Column, f))
		g.Go(func() error {
			return writeExport(exporter, in, f, paths[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("export complete",
		zap.String("column", view.Column),
		zap.Int("files", len(paths)),
		zap.String("dir", dir),
	)
	return paths, nil
}

func writeExport(exporter *present.Exporter, in present.ExportInput, f present.Format, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}

	w := bufio.NewWriter(file)
	if err := exporter.Export(w, in, f); err != nil {
		_ = file.Close()
		return eris.Wrapf(err, "export: write %s", f)
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return eris.Wrapf(err, "export: flush %s", path)
	}
	return file.Close()
}

// verifyCSV reads the exported table back and compares it with the view.
func verifyCSV(path string, view *session.View) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "verify: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := present.ParseCSV(f)
	if err != nil {
		return eris.Wrapf(err, "verify: parse %s", path)
	}
	if !slices.Equal(rows, view.Frequencies) {
		return eris.Errorf("verify: %s does not match the computed frequencies", path)
	}
	zap.L().Debug("csv export verified", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportColumn, "column", "", "question column to export")
	exportCmd.Flags().StringSliceVar(&exportFormats, "format", []string{"csv", "png", "pdf"}, "formats: csv, png, pdf, xlsx, zip")
	exportCmd.Flags().StringVar(&exportOut, "out", "graficos_exportados", "output directory")
	exportCmd.Flags().BoolVar(&exportVerify, "verify", false, "read the CSV back and check it against the table")
	_ = exportCmd.MarkFlagRequired("column")
	rootCmd.AddCommand(exportCmd)
}
