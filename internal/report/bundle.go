package report

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"ghginventory/internal/core"
)

// WriteBundle writes processed_reports.zip: the Excel workbook and the PDF
// yearly summary. Both documents are rendered concurrently before the archive
// is assembled.
func WriteBundle(ctx context.Context, w io.Writer, s core.Summary, inventory string) error {
	var workbook, pdf bytes.Buffer

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return WriteWorkbook(&workbook, s) })
	g.Go(func() error { return WritePDF(&pdf, SummaryTitle(inventory), s.Yearly) })
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, part := range []struct {
		name string
		data []byte
	}{
		{WorkbookName, workbook.Bytes()},
		{PDFName, pdf.Bytes()},
	} {
		fw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("zip %s: %w", part.name, err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return fmt.Errorf("zip %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}
