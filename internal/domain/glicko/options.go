package glicko

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTau sets the volatility constraint. Glickman suggests 0.3 to 1.2.
func WithTau(tau float64) Option {
	return func(e *Engine) {
		if tau > 0 {
			e.tau = tau
		}
	}
}

// WithDefaults sets the public-scale state of newly added competitors.
func WithDefaults(rating, deviation, volatility float64) Option {
	return func(e *Engine) {
		if deviation > 0 && volatility > 0 {
			e.defaults = state{
				mu:    toMu(rating),
				phi:   toPhi(deviation),
				sigma: volatility,
			}
		}
	}
}

// WithMaxDeviation caps the public-scale deviation.
func WithMaxDeviation(deviation float64) Option {
	return func(e *Engine) {
		if deviation > 0 {
			e.maxPhi = toPhi(deviation)
		}
	}
}

// WithTolerance sets the convergence tolerance of the volatility solve.
func WithTolerance(eps float64) Option {
	return func(e *Engine) {
		if eps > 0 {
			e.tolerance = eps
		}
	}
}

// WithRelaxedTolerance sets the tolerance used for the single retry after a
// failed volatility solve.
func WithRelaxedTolerance(eps float64) Option {
	return func(e *Engine) {
		if eps > 0 {
			e.relaxedTolerance = eps
		}
	}
}

// WithMaxIterations bounds each volatility solve.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}
