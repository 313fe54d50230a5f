package source

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aezell/chex/internal/model"
)

// progressLine matches the status lines cargo prints before diagnostics,
// e.g. "    Checking chex v0.1.0 (/chex)".
var progressLine = regexp.MustCompile(`^(Checking|Compiling|Blocking|Updating|Locking|Downloading|Downloaded|Fresh)\b`)

var (
	errorCode = regexp.MustCompile(`^error\[([^\]]+)\]`)
	lintName  = regexp.MustCompile(`#\[(?:warn|deny)\(([\w:]+)\)\]`)
	arrowLine = regexp.MustCompile(`^\s*--> (.+)$`)
)

// ParseText groups human-formatted compiler output into records. Blocks are
// separated by blank lines; a block is kept when its first line starts with
// "warning:" or "error[", and dropped otherwise. keep is applied to every
// kept block; nil means NotTrailer.
func ParseText(output string, keep Actionable) *model.Collection {
	if keep == nil {
		keep = NotTrailer
	}

	lines := splitLines(strings.TrimSpace(output))
	for len(lines) > 0 && progressLine.MatchString(strings.TrimSpace(lines[0])) {
		lines = lines[1:]
	}

	var records []model.Record
	for _, block := range splitBlocks(lines) {
		r, ok := classifyBlock(block)
		if !ok || !keep(r) {
			continue
		}
		records = append(records, r)
	}
	return model.NewCollection(records)
}

func splitBlocks(lines []string) [][]string {
	blocks := [][]string{nil}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blocks = append(blocks, nil)
			continue
		}
		last := len(blocks) - 1
		blocks[last] = append(blocks[last], line)
	}
	return blocks
}

func classifyBlock(block []string) (model.Record, bool) {
	if len(block) == 0 {
		return model.Record{}, false
	}
	first := block[0]

	var level model.Level
	var code string
	switch {
	case strings.HasPrefix(first, "warning:"):
		level = model.LevelWarning
		for _, line := range block[1:] {
			if m := lintName.FindStringSubmatch(line); m != nil {
				code = m[1]
				break
			}
		}
	case strings.HasPrefix(first, "error["):
		level = model.LevelError
		if m := errorCode.FindStringSubmatch(first); m != nil {
			code = m[1]
		}
	default:
		return model.Record{}, false
	}

	opts := []model.RecordOption{
		model.WithCode(code),
		model.WithMessage(messageOf(first)),
	}
	for _, line := range block[1:] {
		if m := arrowLine.FindStringSubmatch(line); m != nil {
			opts = append(opts, model.WithLocation(parseLocation(m[1])))
			break
		}
	}
	return model.NewRecord(level, block, opts...), true
}

// messageOf strips the "level[code]: " prefix from a summary line.
func messageOf(summary string) string {
	if i := strings.Index(summary, ": "); i >= 0 {
		return summary[i+2:]
	}
	return summary
}

// parseLocation splits "src/main.rs:3:13" into its parts. Missing or
// non-numeric line and column parts leave the whole string as the file.
func parseLocation(s string) model.Location {
	s = strings.TrimSpace(s)
	loc := model.Location{File: s}

	i := strings.LastIndex(s, ":")
	if i < 0 {
		return loc
	}
	last, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return loc
	}
	rest := s[:i]
	j := strings.LastIndex(rest, ":")
	if j >= 0 {
		if line, err := strconv.Atoi(rest[j+1:]); err == nil {
			return model.Location{File: rest[:j], Line: line, Column: last}
		}
	}
	return model.Location{File: rest, Line: last}
}

// splitLines splits s into lines. A single trailing newline does not
// produce an empty final line, and "\r\n" endings are accepted.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
