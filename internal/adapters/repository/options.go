package repository

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithEntriesFile sets the entry table file name. Round files are all other
// .csv files whose name does not start with the same stem.
func WithEntriesFile(name string) Option {
	return func(s *CSVStore) {
		if name != "" {
			s.entriesFile = name
		}
	}
}

// WithComma sets the field delimiter of every table.
func WithComma(r rune) Option {
	return func(s *CSVStore) {
		if r != 0 && r != '"' && r != '\n' && r != '\r' {
			s.comma = r
		}
	}
}
