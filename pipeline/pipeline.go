// Package pipeline runs validation, migration and diff for a style text.
package pipeline

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"stylemig/config"
	"stylemig/diff"
	"stylemig/expression"
	"stylemig/migrate"
	"stylemig/spec"
	"stylemig/style"
	"stylemig/validate"
)

// Result is the outcome of a single run. Either Validation is not empty, Err
// is set, or the document was migrated and both serializations with their
// diff are available.
type Result struct {
	Validation []validate.ValidationError
	Err        error

	Document *style.Document
	Migrated *style.Document
	Report   *migrate.Report
	Original string
	Output   string
	Chunks   []diff.Chunk
	Elapsed  time.Duration
}

// Failure returns error describing why run did not produce a diff.
func (r *Result) Failure() error {
	if len(r.Validation) > 0 {
		return validate.Errors(r.Validation)
	}
	return r.Err
}

// IsValidationFailure reports whether error came from validation.
func IsValidationFailure(err error) bool {
	var verrs validate.Errors
	return errors.As(err, &verrs)
}

type Pipeline struct {
	migrator *migrate.Migrator
	format   style.Formatter
	log      *zap.Logger
}

func New(migrator *migrate.Migrator, format style.Formatter, log *zap.Logger) *Pipeline {
	return &Pipeline{migrator: migrator, format: format, log: log.Named("pipeline")}
}

// FromConfig builds pipeline with embedded property catalog and the legacy
// function converter.
func FromConfig(cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	cat, err := spec.Default()
	if err != nil {
		return nil, err
	}
	format := style.Formatter{
		Indent:   cfg.Format.Indent,
		MaxWidth: cfg.Format.MaxWidth,
		SortKeys: cfg.Format.SortKeys,
	}
	return New(migrate.New(cat, expression.Convert, cfg.Migration.DanglingRef, log), format, log), nil
}

// Formatter returns serializer used for both documents.
func (p *Pipeline) Formatter() style.Formatter {
	return p.format
}

// Run validates and parses text, migrates the document and computes diff of
// both serializations. Nothing is migrated when validation fails.
func (p *Pipeline) Run(text string) *Result {
	res := &Result{}
	defer func(start time.Time) {
		res.Elapsed = time.Since(start)
		p.log.Debug("Run completed", zap.Duration("elapsed", res.Elapsed),
			zap.Int("validation errors", len(res.Validation)), zap.Int("chunks", len(res.Chunks)), zap.Error(res.Err))
	}(time.Now())

	doc, errs, err := validate.ParseValidated(text)
	switch {
	case err != nil:
		res.Err = err
		return res
	case len(errs) > 0:
		res.Validation = errs
		return res
	}
	res.Document = doc

	migrated, rpt, err := p.migrator.Document(doc)
	if err != nil {
		res.Err = err
		return res
	}
	res.Migrated, res.Report = migrated, rpt

	res.Original = p.format.Format(doc)
	res.Output = p.format.Format(migrated)
	res.Chunks = diff.Lines(res.Original, res.Output)
	return res
}
