package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconScorer_EmptyText(t *testing.T) {
	raw, comparative, err := NewLexiconScorer().Score("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, raw)
	assert.Equal(t, 0.0, comparative)
}

func TestLexiconScorer_PositiveText(t *testing.T) {
	raw, comparative, err := NewLexiconScorer().Score("the food was amazing and delicious")
	require.NoError(t, err)
	assert.Greater(t, raw, 0.0)
	assert.Greater(t, comparative, 0.0)
}

func TestLexiconScorer_NegativeText(t *testing.T) {
	raw, comparative, err := NewLexiconScorer().Score("terrible service and bland food")
	require.NoError(t, err)
	assert.Less(t, raw, 0.0)
	assert.Less(t, comparative, 0.0)
}

func TestLexiconScorer_NegationFlips(t *testing.T) {
	s := NewLexiconScorer()

	plain, _, err := s.Score("the pizza was good")
	require.NoError(t, err)
	negated, _, err := s.Score("the pizza was not good")
	require.NoError(t, err)

	assert.Greater(t, plain, 0.0)
	assert.Less(t, negated, 0.0)
}

func TestLexiconScorer_RawStaysBounded(t *testing.T) {
	raw, _, err := NewLexiconScorer().Score(
		"amazing awesome outstanding superb fantastic wonderful incredible perfect")
	require.NoError(t, err)
	assert.LessOrEqual(t, raw, 5.0)

	raw, _, err = NewLexiconScorer().Score(
		"awful terrible horrible disgusting worst nasty bad gross")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, raw, -5.0)
}

func TestLexiconScorer_ComparativeIsRawOverWordCount(t *testing.T) {
	raw, comparative, err := NewLexiconScorer().Score("great food")
	require.NoError(t, err)
	assert.Equal(t, raw/2, comparative)
}
