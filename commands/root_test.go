package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zurutech/dicey-go/message"
	"github.com/zurutech/dicey-go/value"
)

func TestParseSelector(t *testing.T) {
	sel, err := parseSelector("sval.Sval#Value")
	require.NoError(t, err)
	assert.Equal(t, value.Selector{Trait: "sval.Sval", Elem: "Value"}, sel)

	for _, in := range []string{"", "noseparator", "#Elem", "Trait#"} {
		_, err := parseSelector(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestEstimate(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		reqs    float64
		unit    string
	}{
		{time.Second, 1, ""},
		{2 * time.Millisecond, 500, ""},
		{500 * time.Microsecond, 2, "k"},
		{500 * time.Nanosecond, 2, "M"},
	}

	for _, tc := range cases {
		reqs, unit := estimate(tc.elapsed)
		assert.InDelta(t, tc.reqs, reqs, 0.001)
		assert.Equal(t, tc.unit, unit)
	}
}

func TestRunLoad(t *testing.T) {
	msg, err := message.NewBuilder(message.OpGet).
		Seq(3).
		Path("/sval").
		Selector("sval.Sval", "Value").
		Build()
	require.NoError(t, err)

	body, err := msg.Dump()
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "get.bin")
	require.NoError(t, os.WriteFile(file, body, 0600))

	assert.NoError(t, runLoad([]string{file}))
	assert.Error(t, runLoad([]string{filepath.Join(t.TempDir(), "missing.bin")}))
}

func TestNewRootCmdWiring(t *testing.T) {
	cmd := NewRootCmd("dicey")

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"echo", "get", "inspect", "load", "set", "subscribe", "timer", "version"} {
		assert.Contains(t, names, want)
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("addr"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("timeout"))
}
