package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	require.Subset(t, names, []string{"deps", "manifest", "version"})
}

func TestVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Equal(t, "k6x dev\n", out.String())
}
