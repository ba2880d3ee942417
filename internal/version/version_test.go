package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevision_PrefersLdflags(t *testing.T) {
	old := Commit
	t.Cleanup(func() { Commit = old })

	Commit = "abc123"
	assert.Equal(t, "abc123", Revision())

	Commit = ""
	assert.NotEmpty(t, Revision())
}
