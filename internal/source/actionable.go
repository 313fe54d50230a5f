package source

import (
	"regexp"

	"github.com/aezell/chex/internal/model"
)

// Actionable reports whether a record is a real diagnostic worth showing, as
// opposed to an aggregate trailer such as "aborting due to 2 previous errors".
type Actionable func(model.Record) bool

// RequireCode drops errors and warnings that carry no code. Compilers attach
// codes (or lint names) to real diagnostics and leave summary lines bare.
func RequireCode(r model.Record) bool {
	switch r.Level() {
	case model.LevelError, model.LevelWarning:
		return r.HasCode()
	default:
		return true
	}
}

// KeepAll accepts every record.
func KeepAll(model.Record) bool { return true }

var trailerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(error|warning): aborting due to`),
	regexp.MustCompile(`^warning: .* generated \d+ warnings?`),
	regexp.MustCompile(`^warning: \d+ warnings? emitted`),
	regexp.MustCompile(`^warning: build failed, waiting for other jobs to finish`),
	regexp.MustCompile(`^error: could not compile`),
}

// NotTrailer drops records whose summary matches a known aggregate trailer
// line. Free-text warnings rarely carry a code, so this is the text-mode
// default instead of RequireCode.
func NotTrailer(r model.Record) bool {
	for _, re := range trailerPatterns {
		if re.MatchString(r.Summary()) {
			return false
		}
	}
	return true
}
