package report

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/extract"
	"go.uber.org/zap"
)

// ErrNoTemplate is returned when a generation request names no template.
var ErrNoTemplate = errors.New("no template configured")

// Fetcher is the registry surface the generator needs.
type Fetcher interface {
	FetchPublications(ctx context.Context, personID string) ([]cristin.Record, error)
	FetchPerson(ctx context.Context, personID string) (cristin.Record, error)
}

// Renderer fills a template with values and writes the document to
// outputPath.
type Renderer interface {
	Render(ctx context.Context, templatePath, outputPath string, values map[string]string) error
}

// Person is the resolved report subject.
type Person struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Institution          string `json:"institution,omitempty"`
	InstitutionSecondary string `json:"institution_secondary,omitempty"`
}

// Request describes one report run.
type Request struct {
	PersonID     string
	Year         string
	TemplatePath string
	OutputDir    string
	ManualFields map[string]string

	// Records, when non-nil, are used instead of fetching publications.
	Records []cristin.Record
}

// Result describes a finished run.
type Result struct {
	OutputPath string  `json:"output_path,omitempty"`
	Person     Person  `json:"person"`
	Entries    []Entry `json:"entries"`
	Context    Context `json:"-"`
}

// Generator runs the fetch, classify, format and render pipeline.
type Generator struct {
	Client   Fetcher
	Renderer Renderer
	Logger   *zap.Logger
}

// Prepare fetches and processes everything a report needs without
// rendering it.
func (g *Generator) Prepare(ctx context.Context, req Request) (Result, error) {
	log := g.logger()

	id, err := cristin.ValidatePersonID(req.PersonID)
	if err != nil {
		return Result{}, err
	}

	records := req.Records
	if records == nil {
		log.Debug("fetching publications", zap.String("person_id", id))
		records, err = g.Client.FetchPublications(ctx, id)
		if err != nil {
			return Result{}, err
		}
	}
	log.Debug("publications loaded", zap.Int("records", len(records)))

	entries := BuildEntries(records, req.Year)
	manual := MergeManualFields(BuildAutoManualFields(records, req.Year), req.ManualFields)
	log.Debug("entries built", zap.String("year", req.Year), zap.Int("entries", len(entries)))

	person := g.resolvePerson(ctx, id)
	header := Header{
		Year:                 req.Year,
		PersonName:           person.Name,
		Institution:          person.Institution,
		InstitutionSecondary: person.InstitutionSecondary,
	}

	return Result{
		Person:  person,
		Entries: entries,
		Context: BuildContext(entries, header, manual),
	}, nil
}

// Generate prepares the report and renders it into req.OutputDir.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if req.TemplatePath == "" {
		return Result{}, ErrNoTemplate
	}

	res, err := g.Prepare(ctx, req)
	if err != nil {
		return Result{}, err
	}

	out := filepath.Join(req.OutputDir, OutputFilename(res.Person.Name, res.Person.ID, req.Year))
	if err := g.Renderer.Render(ctx, req.TemplatePath, out, res.Context); err != nil {
		return Result{}, fmt.Errorf("rendering report: %w", err)
	}
	res.OutputPath = out

	g.logger().Info("report written",
		zap.String("path", out),
		zap.Int("entries", len(res.Entries)),
	)
	return res, nil
}

// resolvePerson never fails: a person record that cannot be fetched
// yields the unknown-name placeholder and empty institutions.
func (g *Generator) resolvePerson(ctx context.Context, id string) Person {
	person := Person{ID: id, Name: extract.UnknownName}

	rec, err := g.Client.FetchPerson(ctx, id)
	if err != nil {
		g.logger().Warn("person lookup failed, using placeholder name",
			zap.String("person_id", id),
			zap.Error(err),
		)
		return person
	}

	person.Name = extract.PersonName(rec)
	person.Institution, person.InstitutionSecondary = extract.Affiliations(rec)
	return person
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
