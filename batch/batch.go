// Package batch converts many score files into stored Song documents.
// Files are converted in parallel and persisted one at a time in path
// order, so the outcome does not depend on the worker count.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/jsphweid/songforge/db"
	"github.com/jsphweid/songforge/model"
	"github.com/jsphweid/songforge/sample"
	"github.com/jsphweid/songforge/score"
	"github.com/jsphweid/songforge/song"
	"github.com/jsphweid/songforge/store"
	"golang.org/x/sync/errgroup"
)

type Lookup interface {
	Lookup(ctx context.Context, filenames []string) (map[string]model.ScoreMetadata, error)
}

type Converter struct {
	Assembler *song.Assembler
	Store     store.Store
	// optional
	Catalog   Lookup
	Workers   int
	WriteMidi bool
	Out       io.Writer
	ReadFile  func(path string) (*model.Score, error)
}

type Outcome struct {
	Path string
	ID   string
	Err  error
}

type Result struct {
	RunID     string
	Total     int
	Converted int
	Outcomes  []Outcome
}

type converted struct {
	song model.Song
	doc  []byte
	midi []byte
	err  error
}

func (c *Converter) printf(format string, a ...any) {
	if c.Out != nil {
		fmt.Fprintf(c.Out, format, a...)
	}
}

func (c *Converter) readFile(path string) (*model.Score, error) {
	if c.ReadFile != nil {
		return c.ReadFile(path)
	}
	return score.ReadFile(path)
}

func (c *Converter) catalog(ctx context.Context, paths []string) map[string]model.ScoreMetadata {
	if c.Catalog == nil {
		return nil
	}
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	found, err := c.Catalog.Lookup(ctx, names)
	if err != nil {
		c.printf("Catalog lookup failed, continuing without it: %v\n", err)
		return nil
	}
	return found
}

func (c *Converter) convert(path string, catalog map[string]model.ScoreMetadata) converted {
	parsed, err := c.readFile(path)
	if err != nil {
		return converted{err: err}
	}
	if found, ok := catalog[filepath.Base(path)]; ok {
		withCatalog := *parsed
		withCatalog.Metadata = db.Merge(parsed.Metadata, found)
		parsed = &withCatalog
	}

	s, err := c.Assembler.Convert(path, parsed)
	if err != nil {
		return converted{err: err}
	}
	doc, err := song.Marshal(s)
	if err != nil {
		return converted{err: err}
	}
	res := converted{song: s, doc: doc}
	if c.WriteMidi {
		var buf bytes.Buffer
		if err := sample.Write(&buf, sample.FromSong(s)); err != nil {
			return converted{err: fmt.Errorf("render midi: %w", err)}
		}
		res.midi = buf.Bytes()
	}
	return res
}

// Run converts every path. Per-file failures are reported and skipped; the
// returned error is only ever a context error.
func (c *Converter) Run(ctx context.Context, paths []string) (Result, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	res := Result{RunID: uuid.NewString(), Total: len(sorted)}
	c.printf("Found %v score files to process (batch %v)\n", len(sorted), res.RunID)

	catalog := c.catalog(ctx, sorted)

	results := make([]converted, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, path := range sorted {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.convert(path, catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	writtenBy := make(map[string]string)
	for i, path := range sorted {
		c.printf("Processing: %v\n", path)
		r := results[i]
		outcome := Outcome{Path: path, ID: r.song.ID, Err: r.err}
		if r.err == nil {
			outcome.Err = c.persist(ctx, path, r, writtenBy)
		}
		if outcome.Err != nil {
			c.printf("  Skipping %v because: %v\n", path, outcome.Err)
		} else {
			res.Converted++
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	c.printf("\nDone! Converted %v/%v files\n", res.Converted, res.Total)
	return res, nil
}

func (c *Converter) persist(ctx context.Context, path string, r converted, writtenBy map[string]string) error {
	id := r.song.ID
	if prev, ok := writtenBy[id]; ok {
		c.printf("  Warning: %v replaces %v written from %v\n", path, id, prev)
	}
	name := id + ".json"
	if err := c.Store.Put(ctx, name, r.doc); err != nil {
		return err
	}
	writtenBy[id] = path
	c.printf("  ✓ %v → %v\n", id, c.Store.Location(name))

	if r.midi != nil {
		if err := c.Store.Put(ctx, id+".mid", r.midi); err != nil {
			return err
		}
	}
	return nil
}
