package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world-post", Slugify("Hello World Post"))
	assert.Equal(t, "hello-world", Slugify("  Hello   World  "))
	assert.Equal(t, "go-tips-tricks", Slugify("Go Tips & Tricks"))
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "snake_case-stays", Slugify("snake_case stays"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "100-days-of-go", Slugify("100 Days of Go"))
}

func TestSlugifyDeterministic(t *testing.T) {
	// Same title always yields the same slug.
	a := Slugify("A Deep Dive Into Actors")
	b := Slugify("A Deep Dive Into Actors")
	assert.Equal(t, a, b)
}
