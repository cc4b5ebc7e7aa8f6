// Package processor runs the invoice generation pipeline: record
// validation, compliance mapping, XML serialization and routing.
package processor

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/mapper"
	"github.com/rezonia/ehf-generator/internal/model"
	xmlparser "github.com/rezonia/ehf-generator/internal/parser/xml"
	"github.com/rezonia/ehf-generator/internal/transmit"
	"github.com/rezonia/ehf-generator/internal/ubl"
	xmlwriter "github.com/rezonia/ehf-generator/internal/writer/xml"
)

// SourceJSON names JSON record input in parse errors
const SourceJSON = "json"

// Result is a generated document
type Result struct {
	XML       []byte
	Invoice   *ubl.Invoice
	Fallbacks []mapper.Fallback
	Routing   transmit.Routing
}

// Pipeline turns invoice records into EHF documents
type Pipeline struct {
	mapper *mapper.Mapper
	writer *xmlwriter.Writer
	reader *xmlparser.Reader
	logger *zap.Logger
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRules sets the fallback rules used by the mapper
func WithRules(rules mapper.Rules) Option {
	return func(p *Pipeline) {
		p.mapper = mapper.New(rules)
	}
}

// WithWriter sets the XML writer
func WithWriter(w *xmlwriter.Writer) Option {
	return func(p *Pipeline) {
		p.writer = w
	}
}

// NewPipeline creates a new generation pipeline
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: zap.NewNop(),
		reader: xmlparser.NewReader(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.mapper == nil {
		p.mapper = mapper.New(mapper.DefaultRules())
	}
	if p.writer == nil {
		p.writer = xmlwriter.NewWriter()
	}
	return p
}

// Rules returns the effective mapping rules
func (p *Pipeline) Rules() mapper.Rules {
	return p.mapper.Rules()
}

// Map validates and maps in without serializing it
func (p *Pipeline) Map(in model.Input) (*mapper.Result, error) {
	res, err := p.mapper.Map(in)
	if err != nil {
		return nil, errors.Wrapf(err, "invoice %q", in.Invoice.Number)
	}
	p.logFallbacks(in.Invoice.Number, res.Fallbacks)
	return res, nil
}

// Generate maps and serializes one record. Nothing is returned on failure.
func (p *Pipeline) Generate(in model.Input) (*Result, error) {
	number := in.Invoice.Number

	mapped, err := p.Map(in)
	if err != nil {
		p.logger.Debug("mapping failed", zap.String("invoice", number), zap.Error(err))
		return nil, err
	}

	data, err := p.writer.WriteToBytes(mapped.Invoice)
	if err != nil {
		p.logger.Error("serialization failed", zap.String("invoice", number), zap.Error(err))
		return nil, errors.Wrapf(err, "invoice %q", number)
	}

	routing, err := transmit.RoutingFor(mapped.Invoice)
	if err != nil {
		return nil, errors.Wrapf(model.NewInvariantError(model.StageMap, "derive routing", err), "invoice %q", number)
	}

	p.logger.Info("invoice generated",
		zap.String("invoice", number),
		zap.Int("lines", len(mapped.Invoice.InvoiceLines)),
		zap.Int("fallbacks", len(mapped.Fallbacks)),
		zap.Int("bytes", len(data)))

	return &Result{
		XML:       data,
		Invoice:   mapped.Invoice,
		Fallbacks: mapped.Fallbacks,
		Routing:   routing,
	}, nil
}

// GenerateBatch generates independent records concurrently. Results are
// index-aligned with inputs; the first error encountered is returned.
func (p *Pipeline) GenerateBatch(inputs []model.Input) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	errCh := make(chan error, len(inputs))

	for i, in := range inputs {
		go func(idx int, in model.Input) {
			result, err := p.Generate(in)
			if err != nil {
				errCh <- err
				return
			}
			results[idx] = result
			errCh <- nil
		}(i, in)
	}

	var firstErr error
	for range inputs {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

// ParseXML reads an EHF document back into the document model
func (p *Pipeline) ParseXML(r io.Reader) (*ubl.Invoice, error) {
	return p.reader.Read(r)
}

func (p *Pipeline) logFallbacks(number string, fallbacks []mapper.Fallback) {
	for _, f := range fallbacks {
		p.logger.Warn("fallback applied",
			zap.String("invoice", number),
			zap.String("rule", f.Rule),
			zap.String("field", f.Field),
			zap.String("value", f.Value))
	}
}

// DecodeInput decodes one JSON invoice record
func DecodeInput(data []byte) (model.Input, error) {
	var in model.Input
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return model.Input{}, model.NewParseError(SourceJSON, "record", "failed to decode invoice record", err)
	}
	return in, nil
}

// DecodeInputs decodes a single JSON record or an array of records
func DecodeInputs(data []byte) ([]model.Input, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, model.NewParseError(SourceJSON, "record", "input is empty", nil)
	}
	if trimmed[0] != '[' {
		in, err := DecodeInput(trimmed)
		if err != nil {
			return nil, err
		}
		return []model.Input{in}, nil
	}

	var inputs []model.Input
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&inputs); err != nil {
		return nil, model.NewParseError(SourceJSON, "records", "failed to decode invoice records", err)
	}
	return inputs, nil
}
