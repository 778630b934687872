// Package syncer runs the fetch engine over manifest resources and keeps
// their cache records on disk.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/kegfetch/internal/config"
	"github.com/MrSnakeDoc/kegfetch/internal/fetch"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/manifest"
	"github.com/MrSnakeDoc/kegfetch/internal/printer"
	"github.com/MrSnakeDoc/kegfetch/internal/record"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

// Engine is the part of *fetch.Fetcher the syncer depends on.
type Engine interface {
	Fetch(ctx context.Context, res fetch.Resource, rec *record.Record) (fetch.Outcome, error)
}

type Options struct {
	// Force ignores existing cache records.
	Force bool
	// SeedFromDest builds a missing record from an existing destination file.
	SeedFromDest bool
	// AllowMissing stops Missing outcomes from failing the run.
	AllowMissing bool
}

// Result is what happened to one resource.
type Result struct {
	Name     string
	Dest     string
	Outcome  fetch.Outcome
	Err      error
	Duration time.Duration
}

type Syncer struct {
	Manifest *manifest.Manifest
	Engine   Engine
	Config   config.Config
	Printer  *printer.ColorPrinter
}

func New(m *manifest.Manifest, engine Engine, conf *config.Config) *Syncer {
	if conf == nil {
		def := config.DefaultConfig()
		conf = &def
	}
	if engine == nil {
		engine = fetch.New(conf, nil)
	}
	return &Syncer{
		Manifest: m,
		Engine:   engine,
		Config:   *conf,
		Printer:  printer.NewColorPrinter(),
	}
}

// Execute syncs the named resources (all of them when names is empty), one
// after the other, then prints a summary table. The returned error reports
// failed resources, and missing ones unless opts.AllowMissing.
func (s *Syncer) Execute(ctx context.Context, names []string, opts Options) ([]Result, error) {
	if s.Manifest == nil {
		return nil, fmt.Errorf("no manifest loaded")
	}

	entries, err := s.Manifest.Select(names)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Info("Nothing to sync, %s lists no resources", manifest.FileName)
		return nil, nil
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := s.Manifest.Resource(e, s.Config.DefaultRetries)
		if err != nil {
			results = append(results, Result{Name: e.Name, Dest: e.Dest, Outcome: fetch.Failed, Err: err})
			continue
		}
		results = append(results, s.Sync(ctx, e.Name, res, s.Manifest.RecordPath(e), opts))
	}

	if err := s.render(results); err != nil {
		return results, err
	}

	summary := Summarize(results)
	logger.Info("%s", summary)
	return results, summary.Err(opts.AllowMissing)
}

// Sync fetches a single resource whose record lives at recordPath. The
// record is written back only when the outcome is Fetched.
func (s *Syncer) Sync(ctx context.Context, name string, res fetch.Resource, recordPath string, opts Options) Result {
	start := time.Now()
	result := Result{Name: name, Dest: res.Dest}

	rec, err := s.loadRecord(name, res.Dest, recordPath, opts)
	if err != nil {
		result.Err = err
		logger.LogError("%s: %v", name, err)
		return result
	}

	out, err := s.Engine.Fetch(ctx, res, &rec)
	result.Outcome = out
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		logger.LogError("%s: %v", name, err)
		return result
	}

	if out.Changed() {
		if err := rec.Save(recordPath); err != nil {
			result.Outcome = fetch.Failed
			result.Err = fmt.Errorf("failed to save cache record %s: %w", recordPath, err)
			logger.LogError("%s: %v", name, result.Err)
			return result
		}
		logger.Debug("%s: cache record written to %s", name, recordPath)
	}
	return result
}

func (s *Syncer) loadRecord(name, dest, recordPath string, opts Options) (record.Record, error) {
	if opts.Force {
		logger.Debug("%s: ignoring cache record (forced)", name)
		return record.Record{}, nil
	}

	rec, err := record.Load(recordPath)
	if err != nil {
		return record.Record{}, fmt.Errorf("failed to read cache record: %w", err)
	}

	present, err := utils.FileExists(dest)
	if err != nil {
		return record.Record{}, err
	}

	// A record without its file would turn into a 304 with nothing on disk.
	if !present && !rec.IsZero() {
		logger.Warn("%s: %s is gone, dropping stale cache record", name, dest)
		rec.Reset()
	}

	if rec.IsZero() && present && opts.SeedFromDest {
		seeded, err := record.FromFile(dest)
		if err != nil {
			return record.Record{}, fmt.Errorf("failed to seed cache record from %s: %w", dest, err)
		}
		logger.Debug("%s: seeded cache record from %s", name, dest)
		return seeded, nil
	}
	return rec, nil
}

// Forget deletes the cache records of the named resources so the next sync
// downloads them again. It returns how many records were removed.
func (s *Syncer) Forget(names []string) (int, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("no resource name provided, please specify at least one resource")
	}
	entries, err := s.Manifest.Select(names)
	if err != nil {
		return 0, err
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		path := s.Manifest.RecordPath(e)
		ok, err := utils.RemoveIfExists(path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
		case ok:
			removed++
			logger.Success("%s: forgot cache record %s", e.Name, path)
		default:
			logger.Info("%s: no cache record to forget", e.Name)
		}
	}
	return removed, errors.Join(errs...)
}

func (s *Syncer) render(results []Result) error {
	p := s.Printer
	if p == nil {
		p = printer.NewPlainPrinter()
	}

	table := logger.CreateTable([]string{"Resource", "Outcome", "Destination", "Time", "Detail"})
	for _, r := range results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		row := []string{
			r.Name,
			p.Outcome(r.Outcome.String()),
			s.displayPath(r.Dest),
			r.Duration.Round(time.Millisecond).String(),
			detail,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

func (s *Syncer) displayPath(p string) string {
	if s.Manifest == nil {
		return p
	}
	if rel, err := filepath.Rel(s.Manifest.Dir(), p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}
