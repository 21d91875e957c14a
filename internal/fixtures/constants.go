package fixtures

// Generation defaults.
const (
	DefaultTournaments = 6
	DefaultMajors      = 1
	DefaultPool        = 120
	DefaultEntrants    = 48
	DefaultRounds      = 6
)

// Strength distribution of the generated pool, on the rating scale.
const (
	strengthMean   = 1500.0
	strengthSpread = 200.0
	glickoScale    = 173.7178
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

const codeLength = 8
