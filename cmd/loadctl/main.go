// Command loadctl runs a whole load calculation from a YAML project file:
// login, project, input, wind and seismic loads, combinations and report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Loadline/internal/auth"
	"Loadline/internal/config"
	"Loadline/internal/input"
	"Loadline/internal/load"
	"Loadline/internal/logging"
	"Loadline/internal/results"
	"Loadline/internal/shell"
	"Loadline/internal/store"
	"Loadline/internal/tables"
	"Loadline/internal/wizard"
)

func main() {
	projectPath := flag.String("project", "project.yaml", "YAML project file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := logging.New(cfg, os.Stderr, "loadctl", nil)

	if err := run(ctx, cfg, logger, *projectPath); err != nil {
		var ve *wizard.ValidationError
		if errors.As(err, &ve) {
			logger.Error("invalid input", "field", ve.Field, "message", ve.Message)
		} else {
			logger.Error("run failed", "err", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, path string) error {
	proj, err := readProject(path)
	if err != nil {
		return err
	}
	if proj.Backend != "" {
		cfg.BackendAddress = proj.Backend
	}

	st := store.NewMemoryStore()
	app, err := shell.New(ctx, cfg, logger, nil, st)
	if err != nil {
		return err
	}
	progress := func(ev wizard.Event) {
		logger.Info("stage "+string(ev.Kind), "pipeline", ev.Pipeline, "stage", ev.Stage, "error", ev.Error)
	}
	app.Input.Observer = progress
	app.Load.Observer = progress

	if err := app.Auth.Login(ctx, auth.Loginrequest{Username: proj.Username, Password: proj.Password}); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if proj.OpenID > 0 {
		if err := app.Projects.Open(ctx, proj.OpenID); err != nil {
			return err
		}
	} else {
		f, err := app.Projects.Create(ctx)
		if err != nil {
			return err
		}
		logger.Info("project created", "id", f.ID)
	}

	if err := fillInput(ctx, app.Input, proj); err != nil {
		return err
	}
	if _, err := app.Input.QueryLocation(ctx); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	if _, err := app.Input.Submit(ctx); err != nil {
		return err
	}

	n, err := app.Load.Open(ctx)
	if err != nil {
		return err
	}
	if err := fillLoad(app.Load, proj, n); err != nil {
		return err
	}
	if len(proj.Wind) > 0 {
		if _, err := app.Load.CalculateWind(ctx); err != nil {
			return err
		}
	}
	if len(proj.Seismic) > 0 {
		if _, err := app.Load.CalculateSeismic(ctx); err != nil {
			return err
		}
	}

	if err := pick(ctx, app.Results, results.ULSWall, results.SLSWall, proj.Combinations.Wall); err != nil {
		return err
	}
	if err := pick(ctx, app.Results, results.ULSRoof, results.SLSRoof, proj.Combinations.Roof); err != nil {
		return err
	}

	name, _ := app.Input.Page().Value(input.ProjectName)
	rep := app.Results.Report(name, time.Now())
	if err := writeReport(proj.Report.PDF, rep.WritePDF); err != nil {
		return err
	}
	if err := writeReport(proj.Report.XLSX, rep.WriteXLSX); err != nil {
		return err
	}
	logger.Info("done", "zones", n, "sections", len(rep.Sections))
	return nil
}

func fillInput(ctx context.Context, ctl *input.Controller, proj Project) error {
	p := ctl.Page()
	for id, v := range proj.Input.Values {
		if err := p.SetValue(id, v); err != nil {
			return fmt.Errorf("input value %s: %w", id, err)
		}
	}
	for _, id := range proj.Input.Radios {
		if err := p.Click(id); err != nil {
			return fmt.Errorf("input radio %s: %w", id, err)
		}
	}
	if proj.Input.ZonesXLSX != "" {
		f, err := os.Open(proj.Input.ZonesXLSX)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = ctl.Import(f)
		return err
	}
	if len(proj.Input.Zones) > 0 {
		elevs := make([]tables.Elevation, len(proj.Input.Zones))
		weights := make([]tables.UnitWeight, len(proj.Input.Zones))
		for i, z := range proj.Input.Zones {
			elevs[i] = tables.Elevation{Zone: z.Zone, Meters: z.Elevation}
			weights[i] = tables.UnitWeight{Zone: z.Zone, Weight: z.UnitWeight}
		}
		return ctl.SetZones(elevs, weights)
	}
	return nil
}

// fillLoad applies the per-zone parameters. The last entry repeats for
// zones the file does not list.
func fillLoad(ctl *load.Controller, proj Project, zones int) error {
	p := ctl.Page()
	for zone := 1; zone <= zones; zone++ {
		if len(proj.Wind) > 0 {
			w := proj.Wind[min(zone, len(proj.Wind))-1]
			if w.Ct != "" {
				if err := p.SetValue(load.CtID(zone), w.Ct); err != nil {
					return err
				}
			}
			if err := p.Click(load.ExposureID(zone, w.Exposure)); err != nil {
				return fmt.Errorf("zone %d exposure: %w", zone, err)
			}
			if w.Ce != "" {
				if err := p.SetValue(load.CeID(zone), w.Ce); err != nil {
					return err
				}
			}
			if err := p.Click(load.PressureID(zone, w.InternalPressure)); err != nil {
				return fmt.Errorf("zone %d internal pressure: %w", zone, err)
			}
		}
		if len(proj.Seismic) > 0 {
			s := proj.Seismic[min(zone, len(proj.Seismic))-1]
			for id, v := range map[string]string{load.ArID(zone): s.Ar, load.RpID(zone): s.Rp, load.CpID(zone): s.Cp} {
				if err := p.SetValue(id, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func pick(ctx context.Context, ctl *results.Controller, ulsGroup, slsGroup string, pr Pair) error {
	if pr.ULS == "" || pr.SLS == "" {
		return nil
	}
	for _, sel := range []struct{ group, label string }{{ulsGroup, pr.ULS}, {slsGroup, pr.SLS}} {
		id, ok := optionID(sel.group, sel.label)
		if !ok {
			return fmt.Errorf("unknown %s combination %q", sel.group, sel.label)
		}
		if _, err := ctl.Select(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func optionID(group, label string) (string, bool) {
	for i, o := range results.Options[group] {
		if o.Label == label {
			return results.OptionID(group, i+1), true
		}
	}
	return "", false
}

func writeReport(path string, write func(w io.Writer) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
