package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiStringOption(t *testing.T) {
	var settings AppSettings
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&MultiStringOption{Params: &settings.IgnoreInterface}, "ignore-interface", "")
	fs.Var(&settings.Snaplen, "snaplen", "")

	err := fs.Parse([]string{"-ignore-interface=docker0", "-ignore-interface", "lo", "-snaplen=64kb"})
	require.Nil(t, err)
	assert.Equal(t, []string{"docker0", "lo"}, settings.IgnoreInterface)
	assert.Equal(t, 64<<10, settings.Snaplen.Int())
}

func TestMultiStringOptionNilParams(t *testing.T) {
	opt := &MultiStringOption{}
	assert.Nil(t, opt.Set("x"))
	assert.Equal(t, "", opt.String())
}
