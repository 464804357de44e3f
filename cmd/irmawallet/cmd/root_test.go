package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDashedFlagsFromEnvironment(t *testing.T) {
	t.Setenv("IRMAWALLET_LOG_JSON", "true")
	execute(t, "render", "changepin", "--json=false", "--status", "pinError")

	require.True(t, viper.GetBool("log-json"))
}
