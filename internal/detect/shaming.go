package detect

import (
	"regexp"
	"strings"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// ConfirmShaming detects guilt-based decline phrasing attached to
// opt-out actions.
type ConfirmShaming struct{}

var shamingRes = []*regexp.Regexp{
	regexp.MustCompile(`no thanks.{0,30}(?:i don'?t want|i'?ll pass)`),
	regexp.MustCompile(`(?:decline|skip).{0,30}savings`),
	regexp.MustCompile(`no.{0,30}(?:i'?m not interested|not for me)`),
}

var shamingKeywords = []string{
	"no thanks, i don't want savings",
	"decline offer",
	"skip this deal",
	"i'll pass on savings",
}

func (ConfirmShaming) Name() string { return "confirm_shaming" }

func (ConfirmShaming) Detect(ev *evidence.View) (*model.Finding, error) {
	text := ev.PlainText

	var evidenceSnippet string
	for _, re := range shamingRes {
		if m := re.FindString(text); m != "" {
			evidenceSnippet = strings.TrimSpace(m)
			break
		}
	}
	if evidenceSnippet == "" {
		kw, ok := containsAny(text, shamingKeywords...)
		if !ok {
			return nil, nil
		}
		evidenceSnippet = kw
	}

	return &model.Finding{
		Type:        model.FindingConfirmShaming,
		Severity:    model.SeverityLow,
		Confidence:  model.ConfidenceMedium,
		Explanation: "Manipulative language used to pressure users into accepting offers.",
		Evidence:    evidenceSnippet,
	}, nil
}
