package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"discover", "audit", "registry", "rotation", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "citations", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestDiscoverCommand_Flags(t *testing.T) {
	target := discoverCmd.Flags().Lookup("target")
	require.NotNil(t, target, "discover command should have --target flag")
	assert.Equal(t, "0", target.DefValue)

	persist := discoverCmd.Flags().Lookup("persist")
	require.NotNil(t, persist, "discover command should have --persist flag")
	assert.Equal(t, "false", persist.DefValue)
}

func TestAuditCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range auditCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["scan"], "audit should have a scan subcommand")
	assert.True(t, names["report"], "audit should have a report subcommand")

	limit := auditReportCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "500", limit.DefValue)
}

func TestRegistryCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range registryCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["load"], "registry should have a load subcommand")
	assert.True(t, names["status"], "registry should have a status subcommand")

	file := registryLoadCmd.Flags().Lookup("file")
	require.NotNil(t, file)
	assert.Equal(t, "registry.yaml", file.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	port := serveCmd.Flags().Lookup("port")
	require.NotNil(t, port, "serve command should have --port flag")
	assert.Equal(t, "0", port.DefValue)
}
