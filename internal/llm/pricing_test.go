package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	assert.Nil(t, LookupCost("no-such-model"))
}

func TestAliases(t *testing.T) {
	aliases := Aliases()
	assert.Len(t, aliases, 3)
	for provider, models := range aliases {
		assert.NotEmpty(t, models, provider)
	}
}
