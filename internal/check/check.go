// Package check loads every aircraft under a root directory and runs its first
// initial-conditions file, each in its own engine.
package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/ic"
	"github.com/san-kum/fdmsim/internal/logging"
	"github.com/san-kum/fdmsim/internal/sim"
	"github.com/san-kum/fdmsim/internal/trim"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

// DefaultSkip names placeholder definitions that are not expected to load.
var DefaultSkip = []string{"blank"}

// Result is the outcome for one aircraft.
type Result struct {
	Aircraft string
	IC       string
	Err      error
	Duration time.Duration
}

func (r Result) OK() bool { return r.Err == nil }

// TrimFailed reports whether the only problem was a trim that did not converge.
func (r Result) TrimFailed() bool { return errors.Is(r.Err, trim.ErrTrimFailed) }

// Checker runs the verification. Engines share only the document cache.
type Checker struct {
	Config  *config.Config
	Logger  *slog.Logger
	Cache   *xmldoc.Cache
	Workers int
	Skip    []string
}

func New(cfg *config.Config, logger *slog.Logger, cache *xmldoc.Cache) *Checker {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Checker{Config: cfg, Logger: logger, Cache: cache, Workers: cfg.Workers, Skip: DefaultSkip}
}

// Aircraft lists the directories under the aircraft root that hold a definition named
// after the directory, minus the skipped ones.
func (c *Checker) Aircraft() ([]string, error) {
	root := filepath.Join(c.Config.RootDir, c.Config.AircraftPath)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	var names []string
	for _, ent := range entries {
		if !ent.IsDir() || slices.Contains(c.Skip, ent.Name()) {
			continue
		}
		if xmldoc.IsType(aircraft.Path(root, ent.Name()), aircraft.RootName) {
			names = append(names, ent.Name())
		}
	}
	return names, nil
}

// Run checks every aircraft, at most Workers at a time. Per-aircraft failures are in the
// results; the returned error is only set when listing fails or ctx ends.
func (c *Checker) Run(ctx context.Context) ([]Result, error) {
	names, err := c.Aircraft()
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if c.Workers > 0 {
		g.SetLimit(c.Workers)
	}
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.One(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// One checks a single aircraft.
func (c *Checker) One(name string) (res Result) {
	start := time.Now()
	res.Aircraft = name
	defer func() { res.Duration = time.Since(start) }()

	log := c.Logger.With("aircraft", name)
	e, err := sim.New(c.Config, c.Logger, c.Cache)
	if err != nil {
		res.Err = err
		return res
	}
	defer e.Close()

	if err := e.LoadModel(name); err != nil {
		res.Err = err
		log.Warn("aircraft failed to load", "err", err)
		return res
	}

	path, err := firstIC(e.Aircraft().Dir)
	if err != nil {
		res.Err = err
		return res
	}
	if path == "" {
		log.Debug("no initial conditions, load only")
		return res
	}
	res.IC = filepath.Base(path)

	if err := e.LoadInitialConditions(path, false); err != nil {
		res.Err = err
		return res
	}
	if err := e.RunIC(); err != nil {
		res.Err = err
		log.Warn("initial conditions failed", "ic", res.IC, "err", err)
		return res
	}
	log.Info("aircraft ok", "ic", res.IC)
	return res
}

// firstIC returns the first initialize document in dir in name order, or "".
func firstIC(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("check: %w", err)
	}
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".xml" {
			continue
		}
		p := filepath.Join(dir, ent.Name())
		if xmldoc.IsType(p, ic.RootName) {
			return p, nil
		}
	}
	return "", nil
}
