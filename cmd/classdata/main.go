// Command classdata aggregates a payroll export archive offline and writes the
// filtered slots in one of the export formats.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/studioanalytics/internal/calendars"
	"github.com/studioanalytics/internal/exports"
	"github.com/studioanalytics/internal/ingest"
	"github.com/studioanalytics/internal/query"
	"github.com/studioanalytics/internal/slots"
	"github.com/studioanalytics/internal/timezone"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("[ERROR] %s", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	set := flag.NewFlagSet("classdata", flag.ContinueOnError)
	set.SetOutput(stderr)
	archivePath := set.String("archive", "", "path to the zip archive")
	marker := set.String("marker", ingest.DefaultMarker, "substring identifying the csv inside the archive")
	format := set.String("format", "csv", "one of csv, json, xlsx, ics")
	out := set.String("out", "", "output path, defaults to the export file name, - for stdout")
	search := set.String("search", "", "search term")
	from := set.String("from", "", "first date to include, 2006-01-02")
	to := set.String("to", "", "last date to include, 2006-01-02")
	sortBy := set.String("sort", "", "sort keys, field:dir,...")
	zone := set.String("timezone", "UTC", "time zone of the class times, used by the ics format")
	if err := set.Parse(args); err != nil {
		return err
	}
	if *archivePath == "" {
		return errors.New("-archive is required")
	}

	req := query.Request{Options: query.Options{SearchTerm: *search}}
	if *from != "" || *to != "" {
		req.Options.DateRange = &query.DateRange{From: *from, To: *to}
	}
	keys, err := query.ParseSortKeys(*sortBy)
	if err != nil {
		return fmt.Errorf("parse sort: %w", err)
	}
	req.Sort = keys
	if err := req.Validate(); err != nil {
		return err
	}

	location, err := timezone.Load(*zone)
	if err != nil {
		return err
	}
	write, filename, err := writer(*format, time.Now(), location)
	if err != nil {
		return err
	}

	f, err := os.Open(*archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}
	table, err := ingest.ReadArchive(f, info.Size(), *marker)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	aggregator := slots.NewAggregator(logger)
	bar := progressbar.NewOptions(len(table.Rows),
		progressbar.OptionSetWriter(stderr),
		progressbar.OptionSetDescription("aggregating "+table.Name),
		progressbar.OptionShowCount(),
	)
	for _, row := range table.Rows {
		aggregator.Add(row)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(stderr)

	dataset := query.Run(aggregator.Slots(), req)
	fmt.Fprintf(stderr, "%d rows, %d skipped, %d slots, %d after filters\n",
		aggregator.Rows(), aggregator.Skipped(), len(aggregator.Slots()), len(dataset))

	if *out == "-" {
		return write(stdout, dataset)
	}
	if *out == "" {
		*out = filename
	}
	dst, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(dst, dataset); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", *format, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	fmt.Fprintf(stderr, "wrote %s\n", *out)
	return nil
}

func writer(format string, now time.Time, location *time.Location) (func(io.Writer, []slots.Slot) error, string, error) {
	switch format {
	case "csv":
		return exports.WriteCSV, exports.CSVFilename(now), nil
	case "json":
		return exports.WriteJSON, exports.JSONFilename, nil
	case "xlsx":
		return exports.WriteXLSX, exports.XLSXFilename(now), nil
	case "ics":
		return func(w io.Writer, dataset []slots.Slot) error {
			return calendars.WriteICal(w, "Classes", dataset, location)
		}, "class_data.ics", nil
	default:
		return nil, "", fmt.Errorf("%q: unknown format", format)
	}
}
