package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Community Picnic 2025":     "community-picnic-2025",
		"  Hello,  World!  ":        "hello-world",
		"already-a-slug":            "already-a-slug",
		"Trailing punctuation...":   "trailing-punctuation",
		"MiXeD CaSe":                "mixed-case",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestUniqueSlug(t *testing.T) {
	assert.Equal(t, "picnic", UniqueSlug("picnic", nil))
	assert.Equal(t, "picnic-2", UniqueSlug("picnic", []string{"picnic"}))
	assert.Equal(t, "picnic-3", UniqueSlug("picnic", []string{"picnic", "picnic-2"}))

	// An unrelated suffixed slug does not force a suffix onto a free base
	assert.Equal(t, "foo", UniqueSlug("foo", []string{"foo-1"}))

	// Gaps left by the base being taken but a variant free are reused
	assert.Equal(t, "picnic-2", UniqueSlug("picnic", []string{"picnic", "picnic-3"}))
}
