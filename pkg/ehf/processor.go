package ehf

import (
	"io"

	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/model"
	xmlparser "github.com/rezonia/ehf-generator/internal/parser/xml"
	"github.com/rezonia/ehf-generator/internal/processor"
	xmlwriter "github.com/rezonia/ehf-generator/internal/writer/xml"
)

// Options configures a Processor
type Options struct {
	Rules  Rules
	Indent int // spaces per nesting level (default: 2)
	Logger *zap.Logger
}

// DefaultOptions returns the EHF defaults
func DefaultOptions() Options {
	return Options{
		Rules:  DefaultRules(),
		Indent: xmlwriter.DefaultIndent,
	}
}

// Document is a generated invoice
type Document struct {
	Number    string
	XML       []byte
	Invoice   *Invoice
	Fallbacks []Fallback
	Routing   Routing
}

// Processor generates and reads EHF invoices. It is safe for concurrent
// use.
type Processor struct {
	pipeline *processor.Pipeline
}

// NewProcessor creates a processor with the given options
func NewProcessor(opts Options) *Processor {
	popts := []processor.Option{processor.WithRules(opts.Rules)}
	if opts.Logger != nil {
		popts = append(popts, processor.WithLogger(opts.Logger))
	}
	if opts.Indent > 0 {
		popts = append(popts, processor.WithWriter(xmlwriter.NewWriter(xmlwriter.WithIndent(opts.Indent))))
	}

	return &Processor{pipeline: processor.NewPipeline(popts...)}
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultOptions())
}

// Rules returns the effective derivation rules
func (p *Processor) Rules() Rules {
	return p.pipeline.Rules()
}

// Generate derives and serializes one invoice
func (p *Processor) Generate(in Input) (*Document, error) {
	res, err := p.pipeline.Generate(in)
	if err != nil {
		return nil, err
	}
	return document(in, res), nil
}

// DecodeJSON reads one JSON record object or an array of them
func DecodeJSON(r io.Reader) ([]Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(processor.SourceJSON, "record", "failed to read input", err)
	}
	return processor.DecodeInputs(data)
}

// GenerateJSON generates every record in r. Documents are index-aligned
// with the records; the first error is returned.
func (p *Processor) GenerateJSON(r io.Reader) ([]*Document, error) {
	inputs, err := DecodeJSON(r)
	if err != nil {
		return nil, err
	}

	results, err := p.pipeline.GenerateBatch(inputs)
	docs := make([]*Document, len(results))
	for i, res := range results {
		if res != nil {
			docs[i] = document(inputs[i], res)
		}
	}
	return docs, err
}

// Validate maps in without serializing it and returns the fallbacks
// that generation would apply
func (p *Processor) Validate(in Input) ([]Fallback, error) {
	res, err := p.pipeline.Map(in)
	if err != nil {
		return nil, err
	}
	return res.Fallbacks, nil
}

// Read parses an EHF document
func (p *Processor) Read(r io.Reader) (*Invoice, error) {
	return p.pipeline.ParseXML(r)
}

// Inspect parses an EHF document and summarizes it
func (p *Processor) Inspect(r io.Reader) (*Summary, error) {
	inv, err := p.pipeline.ParseXML(r)
	if err != nil {
		return nil, err
	}
	s := xmlparser.Summarize(inv)
	return &s, nil
}

func document(in Input, res *processor.Result) *Document {
	return &Document{
		Number:    in.Invoice.Number,
		XML:       res.XML,
		Invoice:   res.Invoice,
		Fallbacks: res.Fallbacks,
		Routing:   res.Routing,
	}
}
