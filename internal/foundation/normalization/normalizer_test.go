package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func colors() *Normalizer[color] {
	return NewNormalizer(map[string]color{
		"red":   "red",
		"Green": "green",
		"grn":   "green",
	}, "red")
}

func TestNormalize(t *testing.T) {
	n := colors()
	assert.Equal(t, color("green"), n.Normalize("  GREEN "))
	assert.Equal(t, color("green"), n.Normalize("grn"))
	assert.Equal(t, color("red"), n.Normalize("blue"))
	assert.Equal(t, color("red"), n.Normalize(""))
}

func TestParse(t *testing.T) {
	n := colors()

	v, err := n.Parse("Red")
	require.NoError(t, err)
	assert.Equal(t, color("red"), v)

	v, err = n.Parse(" ")
	require.NoError(t, err)
	assert.Equal(t, color("red"), v)

	_, err = n.Parse("blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "green, grn, red")
}

func TestKeysIsACopy(t *testing.T) {
	n := colors()
	keys := n.Keys()
	keys[0] = "changed"
	assert.Equal(t, []string{"green", "grn", "red"}, n.Keys())
}
