package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Configure is once-per-process, so a single test drives the whole surface.
func TestConfigureAndComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "moviecat-test"})

	base := Base()
	base.Info().Msg("base message")
	component := WithComponent("server")
	component.Info().Msg("component message")

	out := buf.String()
	assert.Contains(t, out, `"service":"moviecat-test"`)
	assert.Contains(t, out, `"message":"base message"`)
	assert.Contains(t, out, `"component":"server"`)

	// Later Configure calls must not reconfigure.
	var other bytes.Buffer
	Configure(Config{Output: &other})
	base = Base()
	base.Info().Msg("still first writer")
	assert.Zero(t, other.Len())
	assert.Contains(t, buf.String(), "still first writer")
}
