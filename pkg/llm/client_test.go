package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/worldengine/core/pkg/narrator"
)

func TestPromptIncludesTopicPhaseAndEvents(t *testing.T) {
	p := prompt(narrator.Summary{
		Topic:           "is go the best language",
		Phase:           "opening",
		Participants:    []string{"a", "b"},
		CondensedEvents: []string{"a spoke", "b rebutted"},
		Format:          narrator.FormatProse,
	})

	assert.True(t, strings.Contains(p, "Topic: is go the best language"))
	assert.True(t, strings.Contains(p, "Phase: opening"))
	assert.True(t, strings.Contains(p, "Participants: a, b"))
	assert.True(t, strings.Contains(p, "- a spoke"))
	assert.True(t, strings.Contains(p, "- b rebutted"))
	assert.True(t, strings.Contains(p, "prose summary"))
}

func TestPromptOmitsParticipantsLineWhenEmpty(t *testing.T) {
	p := prompt(narrator.Summary{Topic: "t", Phase: "p"})
	assert.False(t, strings.Contains(p, "Participants:"))
}

func TestPromptUsesLaTeXInstructionForLaTeXFormat(t *testing.T) {
	p := prompt(narrator.Summary{Format: narrator.FormatLaTeX})
	assert.True(t, strings.Contains(p, "LaTeX-formatted summary"))
}
