package report

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithPrefix prefixes every output file name, e.g. "cpd_".
func WithPrefix(prefix string) Option {
	return func(w *Writer) {
		w.prefix = prefix
	}
}

// WithoutJSON skips the JSON report.
func WithoutJSON() Option {
	return func(w *Writer) {
		w.json = false
	}
}
