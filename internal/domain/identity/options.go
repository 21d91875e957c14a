// Package identity derives stable competitor keys from registration data.
package identity

import "github.com/okian/podium/internal/domain/model"

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithFormat selects single or paired merge rules.
func WithFormat(f model.Format) Option {
	return func(r *Resolver) {
		r.format = f
	}
}

// WithMultiTeamNames sets the names that are unified across affiliations.
// Only consulted for FormatSingle.
func WithMultiTeamNames(names []string) Option {
	return func(r *Resolver) {
		r.multiTeam = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.multiTeam[n] = struct{}{}
		}
	}
}

// WithSeparator sets the partner separator for FormatPaired names.
func WithSeparator(sep string) Option {
	return func(r *Resolver) {
		if sep != "" {
			r.separator = sep
		}
	}
}
