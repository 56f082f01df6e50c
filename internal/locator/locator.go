// Package locator positions a benchmark output stream at the start of its CSV
// table, skipping the context preamble the benchmark library prints first.
package locator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ciricc/go-bench-describe/internal/config"
)

type Locator interface {
	// Locate returns a reader whose first line is the CSV header.
	Locate(r io.ReadSeeker) (io.Reader, error)
}

// ScanForPrefix rewinds the stream to the first line starting with Prefix, or
// to where it started when no line matches.
type ScanForPrefix struct {
	Prefix string
}

func (l ScanForPrefix) Locate(r io.ReadSeeker) (io.Reader, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locate: %w", err)
	}

	br := bufio.NewReader(r)
	pos := start
	for {
		line, err := br.ReadString('\n')
		if line != "" && strings.HasPrefix(line, l.Prefix) {
			break
		}
		if errors.Is(err, io.EOF) {
			pos = start
			break
		}
		if err != nil {
			return nil, fmt.Errorf("locate: %w", err)
		}
		pos += int64(len(line))
	}

	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return nil, fmt.Errorf("locate: %w", err)
	}
	return r, nil
}

// SkipLines drops N leading lines without looking at them.
type SkipLines struct {
	N int
}

func (l SkipLines) Locate(r io.ReadSeeker) (io.Reader, error) {
	br := bufio.NewReader(r)
	for i := 0; i < l.N; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return br, nil
			}
			return nil, fmt.Errorf("skip line %d: %w", i+1, err)
		}
	}
	return br, nil
}

// FromConfig builds the locator selected by c.
func FromConfig(c config.Config) (Locator, error) {
	switch c.Locator.Strategy {
	case config.StrategyScanPrefix:
		return ScanForPrefix{Prefix: c.Locator.Prefix}, nil
	case config.StrategySkipLines:
		return SkipLines{N: c.Locator.SkipLines}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStrategy, c.Locator.Strategy)
	}
}

var (
	_ Locator = ScanForPrefix{}
	_ Locator = SkipLines{}
)
