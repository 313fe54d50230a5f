package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aezell/chex/internal/model"
)

// cargoMessage is one line of `cargo --message-format=json` output. Only
// compiler-message lines carry a diagnostic.
type cargoMessage struct {
	Reason  string           `json:"reason"`
	Message *compilerMessage `json:"message"`
}

type compilerMessage struct {
	Rendered *string        `json:"rendered"`
	Message  string         `json:"message"`
	Level    string         `json:"level"`
	Code     *compilerCode  `json:"code"`
	Spans    []compilerSpan `json:"spans"`
}

type compilerCode struct {
	Code string `json:"code"`
}

type compilerSpan struct {
	FileName    string `json:"file_name"`
	LineStart   int    `json:"line_start"`
	ColumnStart int    `json:"column_start"`
	IsPrimary   bool   `json:"is_primary"`
}

const reasonCompilerMessage = "compiler-message"

// ParseStructured reads line-delimited cargo JSON messages and returns the
// compiler diagnostics in stream order. Records with an unknown level are
// dropped; keep is applied to the rest, nil means RequireCode. Lines that do
// not start with '{' are plain text interleaved by the tool and are skipped.
func ParseStructured(r io.Reader, keep Actionable) (*model.Collection, error) {
	if keep == nil {
		keep = RequireCode
	}

	var records []model.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var msg cargoMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, lineNo, err)
		}
		if msg.Reason != reasonCompilerMessage {
			continue
		}
		if msg.Message == nil {
			return nil, fmt.Errorf("%w: line %d: compiler-message without message", ErrParse, lineNo)
		}

		rec := msg.Message.record()
		if rec.Level() == model.LevelUnknown || !keep(rec) {
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning messages: %v", ErrParse, err)
	}

	return model.NewCollection(records), nil
}

func (m *compilerMessage) record() model.Record {
	level := model.ParseLevel(m.Level)

	var lines []string
	if m.Rendered != nil {
		lines = splitLines(*m.Rendered)
	}
	if len(lines) == 0 {
		lines = []string{fmt.Sprintf("%s: %s", m.Level, m.Message)}
	}

	opts := []model.RecordOption{model.WithMessage(m.Message)}
	if m.Code != nil {
		opts = append(opts, model.WithCode(m.Code.Code))
	}
	for _, span := range m.Spans {
		if span.IsPrimary {
			opts = append(opts, model.WithLocation(model.Location{
				File:   span.FileName,
				Line:   span.LineStart,
				Column: span.ColumnStart,
			}))
			break
		}
	}
	return model.NewRecord(level, lines, opts...)
}
