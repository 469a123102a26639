package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("done"), "done")
	assert.Contains(t, FormatSuccess("done"), SuccessIcon)
	assert.Contains(t, FormatError("broken"), ErrorIcon)
	assert.Contains(t, FormatWarning("careful"), WarningIcon)
	assert.Contains(t, FormatTitle("Cleaning"), MapIcon)
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Cross-period summary", "cycle pairs: 6\ntotal flips: 83")

	assert.Contains(t, out, "Cross-period summary")
	assert.Contains(t, out, "cycle pairs: 6")
	assert.Contains(t, out, "total flips: 83")
	assert.Greater(t, len(strings.Split(out, "\n")), 2, "box output spans multiple lines")
}
