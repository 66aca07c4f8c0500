// Package detect implements the dark-pattern signal detectors. Each
// detector is an independent pure function over the evidence view; a
// failure in one detector never aborts the others.
package detect

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Detector produces zero or one Finding from the evidence view.
type Detector interface {
	Name() string
	Detect(ev *evidence.View) (*model.Finding, error)
}

// Registry returns the fixed detector list in invocation order.
func Registry() []Detector {
	return []Detector{
		Scarcity{},
		DripPricing{},
		PretickedAddons{},
		ConfirmShaming{},
	}
}

// RunAll invokes each detector with isolation: a panic or error inside
// one detector is recovered, logged, and converted into "no finding".
func RunAll(detectors []Detector, ev *evidence.View) []model.Finding {
	var findings []model.Finding
	for _, d := range detectors {
		f, err := runOne(d, ev)
		if err != nil {
			zap.L().Warn("detect: detector failed",
				zap.String("detector", d.Name()),
				zap.Error(err),
			)
			continue
		}
		if f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func runOne(d Detector, ev *evidence.View) (f *model.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = eris.Errorf("panic: %v", r)
		}
	}()
	return d.Detect(ev)
}

// containsAny checks if s contains any of the given substrings, returning
// the first one found.
func containsAny(s string, substrs ...string) (string, bool) {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return sub, true
		}
	}
	return "", false
}
