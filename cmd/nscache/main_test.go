package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nscacheCLI(t *testing.T, mr *miniredis.Miniredis, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--connection", mr.Addr(), "--ns", "cli", "--log-level", "error"}, args...)
	err := run(context.Background(), full, &out, &errOut)
	return out.String(), err
}

func TestCLIScalar(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := nscacheCLI(t, mr, "set", "greeting", "<b>hi</b>")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, mr.TTL("cli:greeting"))

	out, err := nscacheCLI(t, mr, "get", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "<b>hi</b>\n", out)

	out, err = nscacheCLI(t, mr, "get", "missing")
	require.NoError(t, err)
	assert.Equal(t, "(nil)\n", out)
}

func TestCLIArraysAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := nscacheCLI(t, mr, "set", "grid", `[["a",1],[null,"<i>"]]`, "--json", "--ttl", "1d")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, mr.TTL("cli:grid"))

	out, err := nscacheCLI(t, mr, "--format", "cbor", "get", "grid")
	require.NoError(t, err)
	assert.JSONEq(t, `[["a",1],[null,"<i>"]]`, out)

	_, err = nscacheCLI(t, mr, "--format", "msgpack", "set", "list", `["x","y"]`, "--json")
	require.NoError(t, err)
	out, err = nscacheCLI(t, mr, "get", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `["x","y"]`, out)

	_, err = nscacheCLI(t, mr, "expire", "grid", "0")
	require.NoError(t, err)
	assert.Zero(t, mr.TTL("cli:grid"))
}

func TestCLIExistsDelPurge(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("other:k", "keep"))

	for _, k := range []string{"a", "b", "c"} {
		_, err := nscacheCLI(t, mr, "set", k, "v")
		require.NoError(t, err)
	}
	out, err := nscacheCLI(t, mr, "exists", "a")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = nscacheCLI(t, mr, "del", "a")
	require.NoError(t, err)
	out, err = nscacheCLI(t, mr, "exists", "a")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	out, err = nscacheCLI(t, mr, "purge")
	require.NoError(t, err)
	assert.Equal(t, "deleted 2\n", out)
	assert.Equal(t, []string{"other:k"}, mr.Keys())
}

func TestCLIErrors(t *testing.T) {
	mr := miniredis.RunT(t)

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"--connection", mr.Addr(), "get", "k"}, &out, &errOut)
	assert.ErrorContains(t, err, "--ns is required")

	_, err = nscacheCLI(t, mr, "--format", "xml", "get", "k")
	assert.Error(t, err)

	_, err = nscacheCLI(t, mr, "set", "k", "[1,", "--json")
	assert.Error(t, err)

	_, err = nscacheCLI(t, mr, "set", "k", "v", "--ttl", "soon")
	assert.Error(t, err)

	_, err = nscacheCLI(t, mr, "set", "k", "contains ArrayColumn")
	assert.Error(t, err)
}
