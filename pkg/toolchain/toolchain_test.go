package toolchain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultBinary, c.binary)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestNew_WithOptions(t *testing.T) {
	c, err := New(WithBinary("cargo-nightly"), WithTimeout(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "cargo-nightly", c.binary)
	assert.Equal(t, 10*time.Second, c.timeout)
}

func TestWithBinary_Empty(t *testing.T) {
	_, err := New(WithBinary(""))
	assert.Error(t, err)
}

func TestWithTimeout_Invalid(t *testing.T) {
	_, err := New(WithTimeout(0))
	assert.Error(t, err)

	_, err = New(WithTimeout(-1 * time.Second))
	assert.Error(t, err)
}

func TestResult_OK(t *testing.T) {
	assert.True(t, Result{}.OK())
	assert.False(t, Result{ExitCode: 1}.OK())
	assert.False(t, Result{TimedOut: true}.OK())
	assert.False(t, Result{ExitCode: 101, TimedOut: true}.OK())
}

func TestRun_CombinedOutput(t *testing.T) {
	c, err := New(WithBinary("sh"))
	require.NoError(t, err)

	res, err := c.Run(context.Background(), "", "-c", "echo to-stdout; echo to-stderr 1>&2")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "to-stdout")
	assert.Contains(t, res.Output, "to-stderr")
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestRun_NonZeroExit(t *testing.T) {
	c, err := New(WithBinary("sh"))
	require.NoError(t, err)

	res, err := c.Run(context.Background(), "", "-c", "echo boom; exit 3")
	require.NoError(t, err, "non-zero exit must be a Result, not an error")
	assert.False(t, res.OK())
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "boom")
}

func TestRun_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()

	c, err := New(WithBinary("sh"))
	require.NoError(t, err)

	res, err := c.Run(context.Background(), dir, "-c", "pwd")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, res.Output, dir)
}

func TestRun_MissingBinary(t *testing.T) {
	c, err := New(WithBinary("definitely-not-a-real-binary-4f2a"))
	require.NoError(t, err)

	_, err = c.Run(context.Background(), "", "build")
	assert.Error(t, err)
}

func TestRun_Timeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}

	c, err := New(WithBinary("sh"), WithTimeout(100*time.Millisecond))
	require.NoError(t, err)

	res, err := c.Run(context.Background(), "", "-c", "sleep 5")
	require.NoError(t, err, "a timeout must be a Result, not an error")
	assert.True(t, res.TimedOut)
	assert.False(t, res.OK())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "lon...", Truncate("longer", 3))
}
