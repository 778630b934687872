package status

import (
	"fmt"
	"time"

	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/manifest"
	"github.com/MrSnakeDoc/kegfetch/internal/printer"
	"github.com/MrSnakeDoc/kegfetch/internal/record"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

// State summarises how a destination relates to its cache record.
type State string

const (
	StateOK        State = "ok"
	StateModified  State = "modified"
	StateAbsent    State = "absent"
	StateUntracked State = "untracked"
)

const lastFetchLayout = "2006-01-02 15:04"

// Row is a view model for one manifest resource.
type Row struct {
	Name    string
	Dest    string
	Present bool
	State   State
	Record  record.Record
}

type Reporter struct {
	Manifest *manifest.Manifest
	Printer  *printer.ColorPrinter
}

func New(m *manifest.Manifest) *Reporter {
	return &Reporter{
		Manifest: m,
		Printer:  printer.NewColorPrinter(),
	}
}

// Collect inspects every resource without touching the network.
func (r *Reporter) Collect() ([]Row, error) {
	rows := make([]Row, 0, len(r.Manifest.Resources))
	for _, e := range r.Manifest.Resources {
		res, err := r.Manifest.Resource(e, 0)
		if err != nil {
			return nil, err
		}

		rec, err := record.Load(r.Manifest.RecordPath(e))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}

		present, err := utils.FileExists(res.Dest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}

		row := Row{Name: e.Name, Dest: e.Dest, Present: present, Record: rec}
		switch {
		case !present:
			row.State = StateAbsent
		case rec.SHA256 == "":
			row.State = StateUntracked
		default:
			sum, err := utils.SHA256File(res.Dest)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Name, err)
			}
			row.State = StateOK
			if sum != rec.SHA256 {
				row.State = StateModified
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Execute renders the status table.
func (r *Reporter) Execute() error {
	if len(r.Manifest.Resources) == 0 {
		logger.Info("No resources in %s", manifest.FileName)
		return nil
	}

	rows, err := r.Collect()
	if err != nil {
		return err
	}

	p := r.Printer
	if p == nil {
		p = printer.NewPlainPrinter()
	}

	table := logger.CreateTable([]string{"Resource", "Destination", "Present", "State", "SHA256", "ETag", "Last fetch"})
	for _, row := range rows {
		if err := table.Append(renderRow(p, row)); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

func renderRow(p *printer.ColorPrinter, row Row) []string {
	present := p.Success("✓")
	if !row.Present {
		present = p.Error("✗")
	}

	return []string{
		row.Name,
		row.Dest,
		present,
		prettyState(p, row.State),
		orDash(utils.ShortHash(row.Record.SHA256)),
		orDash(row.Record.ETag),
		lastFetch(row.Record.Time),
	}
}

func prettyState(p *printer.ColorPrinter, s State) string {
	switch s {
	case StateOK:
		return p.Success("%s", s)
	case StateModified:
		return p.Warning("%s", s)
	case StateAbsent:
		return p.Error("%s", s)
	default:
		return string(s)
	}
}

func lastFetch(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(lastFetchLayout)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
