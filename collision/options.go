package collision

import "go.viam.com/ccd/logging"

// DefaultInsideTolerance is how far a vertex-face contact may lie outside the face and still count.
const DefaultInsideTolerance = 0.2

type options struct {
	logger          logging.Logger
	insideTolerance float64
	parallel        bool
}

func defaultOptions() options {
	return options{
		logger:          logging.NewBlankLogger("ccd"),
		insideTolerance: DefaultInsideTolerance,
	}
}

// Option configures a ConservativeAdvancement query.
type Option func(*options)

// WithLogger sets the logger the query reports its intermediate values to at debug level.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInsideTolerance sets the containment tolerance for vertex-face contacts.
func WithInsideTolerance(tolerance float64) Option {
	return func(o *options) {
		o.insideTolerance = tolerance
	}
}

// WithParallel spreads the feature pairs over multiple goroutines.
func WithParallel(parallel bool) Option {
	return func(o *options) {
		o.parallel = parallel
	}
}
