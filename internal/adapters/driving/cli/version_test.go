package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	buf, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "ragpipe version")
	assert.Contains(t, buf.String(), version)
}
