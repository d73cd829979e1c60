package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mockup-compositor/internal/asset"
	"mockup-compositor/internal/brand"
	"mockup-compositor/internal/mockup"
	"mockup-compositor/internal/zone"
)

var (
	ErrTemplateDecode = errors.New("template decode failed")
	ErrHandler        = errors.New("handler failed")
)

// Result is the outcome of one (direction, template) pair. On failure Path is
// the unmodified template and Err says why.
type Result struct {
	DirectionID string
	TemplateID  string
	Path        string
	Summary     string
	Err         error
}

func (r Result) OK() bool { return r.Err == nil }

type Options struct {
	Detector *zone.Detector
	Registry *mockup.Registry

	// Cache is optional. Without it zones are detected for every pair.
	Cache *zone.Cache

	// Manifest is optional and receives the zones of every decodable template.
	Manifest *zone.Manifest

	OutputDir string
	Workers   int
	Logger    *slog.Logger
}

type Orchestrator struct {
	detector  *zone.Detector
	cache     *zone.Cache
	registry  *mockup.Registry
	manifest  *zone.Manifest
	outputDir string
	workers   int
	logger    *slog.Logger
}

func New(opts Options) (*Orchestrator, error) {
	if opts.Registry == nil {
		return nil, errors.New("handler registry is required")
	}
	detector := opts.Detector
	if detector == nil {
		detector = zone.NewDetector(zone.DefaultOptions())
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = "output"
	}
	return &Orchestrator{
		detector:  detector,
		cache:     opts.Cache,
		registry:  opts.Registry,
		manifest:  opts.Manifest,
		outputDir: outputDir,
		workers:   workers,
		logger:    logger,
	}, nil
}

// source is a template read once per run and shared read-only by its tasks.
type source struct {
	Template
	raw []byte
	img image.Image
	err error
}

// Run composites every direction against every template. It always returns
// one Result per pair, ordered by direction then template, and never fails
// as a whole.
func (o *Orchestrator) Run(ctx context.Context, dirs []*brand.Direction, tpls []Template) []Result {
	runID := uuid.NewString()
	log := o.logger.With("run_id", runID)
	start := time.Now()
	log.Info("batch started", "directions", len(dirs), "templates", len(tpls), "workers", o.workers)

	sources := make([]*source, len(tpls))
	for i, t := range tpls {
		sources[i] = o.load(t)
		if sources[i].err == nil && o.manifest != nil {
			o.manifest.Add(t.ID, o.zones(sources[i]))
		}
	}

	results := make([]Result, len(dirs)*len(tpls))
	eg := new(errgroup.Group)
	eg.SetLimit(o.workers)
	for di, dir := range dirs {
		for ti, src := range sources {
			idx := di*len(sources) + ti
			dir, src := dir, src
			eg.Go(func() error {
				results[idx] = o.compose(ctx, log, dir, src)
				return nil
			})
		}
	}
	_ = eg.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	log.Info("batch finished",
		"directions", len(dirs),
		"templates", len(tpls),
		"results", len(results),
		"failed", failed,
		"dur_ms", time.Since(start).Milliseconds(),
	)
	return results
}

// Compose runs a single pair.
func (o *Orchestrator) Compose(ctx context.Context, dir *brand.Direction, t Template) Result {
	log := o.logger.With("run_id", uuid.NewString())
	return o.compose(ctx, log, dir, o.load(t))
}

// Render composites raw template bytes in memory, without touching disk.
// A template with no zones comes back as a plain clone.
func (o *Orchestrator) Render(templateID string, raw []byte, dir *brand.Direction) (*image.NRGBA, mockup.Summary, error) {
	img, err := asset.Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTemplateDecode, err)
	}
	src := &source{Template: Template{ID: mockup.NormalizeID(templateID)}, raw: raw, img: img}
	zones := o.zones(src)
	if !zones.Any() {
		return imaging.Clone(img), nil, nil
	}
	return o.apply(src, dir, zones)
}

func (o *Orchestrator) load(t Template) *source {
	src := &source{Template: t}
	raw, err := os.ReadFile(t.Path)
	if err != nil {
		src.err = fmt.Errorf("%w: %s: %w", ErrTemplateDecode, t.Path, err)
		return src
	}
	img, err := asset.Decode(raw)
	if err != nil {
		src.err = fmt.Errorf("%w: %s: %w", ErrTemplateDecode, t.Path, err)
		return src
	}
	src.raw = raw
	src.img = img
	return src
}

func (o *Orchestrator) zones(src *source) zone.Set {
	if o.cache != nil {
		return o.cache.Zones(src.ID, src.raw, src.img)
	}
	return o.detector.DetectAll(src.img)
}

func (o *Orchestrator) compose(ctx context.Context, log *slog.Logger, dir *brand.Direction, src *source) Result {
	res := Result{DirectionID: dir.ID, TemplateID: src.ID, Path: src.Path}
	fail := func(msg string, err error) Result {
		res.Err = err
		log.Error(msg, "template", src.ID, "direction", dir.ID, "err", err)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail("pair cancelled", err)
	}
	if src.err != nil {
		return fail("template decode failed", src.err)
	}

	var (
		data    []byte
		ext     string
		summary mockup.Summary
	)
	zones := o.zones(src)
	if zones.Any() {
		canvas, s, err := o.apply(src, dir, zones)
		if err != nil {
			return fail("handler failed", err)
		}
		data, ext, err = encode(canvas, src.Path)
		if err != nil {
			return fail("encode failed", err)
		}
		summary = s
	} else {
		data, ext = src.raw, strings.ToLower(filepath.Ext(src.Path))
	}

	out := OutputPath(o.outputDir, dir.ID, src.ID, ext)
	if err := writeAtomic(out, data); err != nil {
		return fail("write failed", fmt.Errorf("write %s: %w", out, err))
	}

	res.Path = out
	res.Summary = summary.String()
	log.Info("composited", "template", src.ID, "direction", dir.ID, "summary", res.Summary, "path", out)
	return res
}

// apply runs the template's handler on a fresh canvas. Panics inside the
// handler are turned into ErrHandler so one pair never takes down the batch.
func (o *Orchestrator) apply(src *source, dir *brand.Direction, zones zone.Set) (canvas *image.NRGBA, summary mockup.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			canvas, summary = nil, nil
			err = fmt.Errorf("%w: template %s direction %s: panic: %v", ErrHandler, src.ID, dir.ID, r)
		}
	}()

	h, _ := o.registry.Lookup(src.ID)
	canvas = imaging.Clone(src.img)
	summary, err = h.Apply(canvas, src.img, dir, zones)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: template %s direction %s: %w", ErrHandler, src.ID, dir.ID, err)
	}
	return canvas, summary, nil
}
