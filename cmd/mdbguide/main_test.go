package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "1.0.0 (2026-10-17), Go Version: go1.22", versionString("1.0.0", "2026-10-17", "go1.22"))
	assert.Equal(t, "dev, Go Version: go1.22", versionString("dev", "", "go1.22"))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Go Version:")
}

func TestSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, sub := range rootCmd().Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{
		"ping", "seed", "list", "find", "update", "delete", "indexes", "aggregate", "report", "version",
	})
}

func TestReportShow(t *testing.T) {
	out, err := execute(t, "report", "per-author", "--since", "2000", "--show")
	require.NoError(t, err)
	assert.Contains(t, out, `"$match"`)
	assert.Contains(t, out, `"$gte":2000`)
	assert.Contains(t, out, `"$group"`)

	out, err = execute(t, "report", "oldest", "--limit", "5", "--show")
	require.NoError(t, err)
	assert.Contains(t, out, `{"$limit":5}`)
}

func TestReportUnknown(t *testing.T) {
	_, err := execute(t, "report", "no-such-report")
	assert.Error(t, err)
	_, err = execute(t, "report")
	assert.Error(t, err)
}

func TestUpdateNothing(t *testing.T) {
	_, err := execute(t, "update", "Nada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestAggregateNeedsFile(t *testing.T) {
	_, err := execute(t, "aggregate")
	assert.Error(t, err)
	_, err = execute(t, "aggregate", "--file", "missing.yaml")
	assert.Error(t, err)
}

func TestTargetFlags(t *testing.T) {
	flags := &rootFlags{host: "mongo", port: 27018, username: "root", password: "example", database: "libreria"}
	target, err := flags.target()
	require.NoError(t, err)
	assert.Equal(t, "mongo:27018", target.Address())
	assert.Equal(t, "root", target.Username)
	assert.Equal(t, "libreria", target.Database)

	flags = &rootFlags{port: 99999}
	_, err = flags.target()
	assert.Error(t, err)
}
