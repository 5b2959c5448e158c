package pipeline

import (
	"runtime"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Ensure Parameters implements codec.Parameters
var _ codec.Parameters = (*Parameters)(nil)

const (
	defaultQuality    = 50
	defaultQueueDepth = 2
)

// Parameters configures a Pipeline
type Parameters struct {
	// Precision selects float64 reference arithmetic or a fixed-point width
	// for the transform. Default: common.PrecisionReference.
	Precision common.Precision

	// Quality is the libjpeg-style quality (1-100) the quantization table was
	// derived from, or 0 when QuantTable was set directly. Default: 50.
	Quality int

	// QuantTable holds the divisors in coefficient units (see
	// common.CoefficientTable). Default: luminance table at quality 50.
	QuantTable common.QuantTable

	// Schedule selects how blocks are dispatched. Default: ScheduleSequential.
	Schedule Schedule

	// Workers is the goroutine count for ScheduleParallel. Default: GOMAXPROCS.
	Workers int

	// QueueDepth is the channel capacity between ScheduleStreaming stages.
	// Values below 2 are raised to 2. Default: 2.
	QueueDepth int

	// IsVerbose enables progress logging in callers that support it.
	IsVerbose bool

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewParameters creates Parameters with default values
func NewParameters() *Parameters {
	p := &Parameters{
		Precision:  common.PrecisionReference,
		Schedule:   ScheduleSequential,
		Workers:    runtime.GOMAXPROCS(0),
		QueueDepth: defaultQueueDepth,
		params:     make(map[string]interface{}),
	}
	p.WithQuality(defaultQuality)
	return p
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case "precision":
		return p.Precision.String()
	case "fracBits":
		return p.Precision.FracBits
	case "quality":
		return p.Quality
	case "quantTable":
		return p.QuantTable
	case "schedule":
		return p.Schedule.String()
	case "workers":
		return p.Workers
	case "queueDepth":
		return p.QueueDepth
	case "isVerbose":
		return p.IsVerbose
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *Parameters) SetParameter(name string, value interface{}) {
	switch name {
	case "precision":
		switch v := value.(type) {
		case string:
			if prec, err := common.ParsePrecision(v); err == nil {
				p.Precision = prec
			}
		case common.Precision:
			p.Precision = v
		}
	case "fracBits":
		if v, ok := value.(int); ok {
			p.Precision = common.Precision{FracBits: v}
		}
	case "quality":
		if v, ok := value.(int); ok {
			p.WithQuality(v)
		}
	case "quantTable":
		if v, ok := value.(common.QuantTable); ok {
			p.WithQuantTable(v)
		}
	case "schedule":
		switch v := value.(type) {
		case string:
			if s, err := ParseSchedule(v); err == nil {
				p.Schedule = s
			}
		case Schedule:
			p.Schedule = v
		}
	case "workers":
		if v, ok := value.(int); ok {
			p.Workers = v
		}
	case "queueDepth":
		if v, ok := value.(int); ok {
			p.QueueDepth = v
		}
	case "isVerbose":
		if v, ok := value.(bool); ok {
			p.IsVerbose = v
		}
	default:
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// Validate checks the parameters and normalizes scheduling values
func (p *Parameters) Validate() error {
	if err := p.Precision.Validate(); err != nil {
		return err
	}
	if err := p.QuantTable.Validate(); err != nil {
		return err
	}
	if err := p.Schedule.Validate(); err != nil {
		return err
	}
	if p.Workers < 1 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	if p.QueueDepth < defaultQueueDepth {
		p.QueueDepth = defaultQueueDepth
	}
	return nil
}

// WithPrecision sets the transform precision and returns the parameters for chaining
func (p *Parameters) WithPrecision(prec common.Precision) *Parameters {
	p.Precision = prec
	return p
}

// WithQuality derives the quantization table from the luminance table at the
// given quality. Out-of-range qualities leave the table unchanged.
func (p *Parameters) WithQuality(quality int) *Parameters {
	table, err := common.ScaleQuantTable(common.DefaultLuminanceQuantTable, quality)
	if err != nil {
		return p
	}
	p.Quality = quality
	p.QuantTable = common.CoefficientTable(table)
	return p
}

// WithQuantTable sets a table in coefficient units and returns the parameters for chaining
func (p *Parameters) WithQuantTable(table common.QuantTable) *Parameters {
	p.Quality = 0
	p.QuantTable = table
	return p
}

// WithSchedule sets the block scheduler and returns the parameters for chaining
func (p *Parameters) WithSchedule(s Schedule) *Parameters {
	p.Schedule = s
	return p
}

// WithWorkers sets the parallel worker count and returns the parameters for chaining
func (p *Parameters) WithWorkers(n int) *Parameters {
	p.Workers = n
	return p
}

// WithQueueDepth sets the streaming queue depth and returns the parameters for chaining
func (p *Parameters) WithQueueDepth(depth int) *Parameters {
	p.QueueDepth = depth
	return p
}

// Clone returns a deep copy of p
func (p *Parameters) Clone() *Parameters {
	c := *p
	c.params = make(map[string]interface{}, len(p.params))
	for k, v := range p.params {
		c.params[k] = v
	}
	return &c
}
