package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{
		CategoryNoun, CategoryVerb, CategoryModalVerb, CategoryIrregularVerb, CategorySeparableVerb,
	} {
		assert.True(t, c.Valid(), "%s", c)
	}
	assert.False(t, Category("adjectives").Valid())
	assert.False(t, Category("").Valid())
}

func TestCategoryIsVerb(t *testing.T) {
	assert.False(t, CategoryNoun.IsVerb())
	assert.True(t, CategoryVerb.IsVerb())
	assert.True(t, CategoryModalVerb.IsVerb())
	assert.True(t, CategoryIrregularVerb.IsVerb())
	assert.True(t, CategorySeparableVerb.IsVerb())
}

func TestExpectedVerbType(t *testing.T) {
	assert.Equal(t, "irregular", (&Word{Category: CategoryIrregularVerb, VerbType: "regular"}).ExpectedVerbType())
	assert.Equal(t, "regular", (&Word{Category: CategoryVerb, VerbType: "regular"}).ExpectedVerbType())
	assert.Equal(t, "irregular", (&Word{Category: CategoryVerb}).ExpectedVerbType())
}
