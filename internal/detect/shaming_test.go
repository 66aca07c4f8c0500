package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

func TestConfirmShaming_GuiltPhrasing(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"no thanks i dont want", `<button>No thanks, I don't want savings</button>`},
		{"decline savings", `<a href="#">Decline these savings</a>`},
		{"not interested", `<button>No, I'm not interested in saving money</button>`},
		{"skip this deal", `<button>Skip this deal</button>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := evidence.New(tt.markup, "example.com")
			f, err := ConfirmShaming{}.Detect(ev)
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, model.FindingConfirmShaming, f.Type)
			assert.Equal(t, model.SeverityLow, f.Severity)
			assert.Equal(t, model.ConfidenceMedium, f.Confidence)
			assert.NotEmpty(t, f.Evidence)
		})
	}
}

func TestConfirmShaming_NeutralDecline(t *testing.T) {
	ev := evidence.New(`<button>No thanks</button><button>Continue</button>`, "example.com")

	f, err := ConfirmShaming{}.Detect(ev)
	require.NoError(t, err)
	assert.Nil(t, f)
}
