package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elixirpack/cmd/elixirpack/commands"
	"go.trai.ch/elixirpack/internal/app"
	"go.trai.ch/elixirpack/internal/build"
	"go.trai.ch/elixirpack/internal/core/domain"
)

type mockApp struct {
	logOpts    app.LogOptions
	detectDir  string
	compile    *app.CompileOptions
	released   bool
	detectErr  error
	compileErr error
}

func (m *mockApp) SetLogOptions(opts app.LogOptions) { m.logOpts = opts }

func (m *mockApp) Detect(_ context.Context, appDir string, out io.Writer) error {
	m.detectDir = appDir
	if m.detectErr != nil {
		return m.detectErr
	}
	_, err := io.WriteString(out, "Elixir\n")
	return err
}

func (m *mockApp) Compile(_ context.Context, opts app.CompileOptions) error {
	m.compile = &opts
	return m.compileErr
}

func (m *mockApp) Release(out io.Writer) error {
	m.released = true
	_, err := io.WriteString(out, "---\n")
	return err
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	var out bytes.Buffer
	cli.SetOutput(&out, &out)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCommands_Detect(t *testing.T) {
	m := &mockApp{}
	out, err := execute(t, m, "detect", "/tmp/app")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/app", m.detectDir)
	assert.Equal(t, "Elixir\n", out)

	t.Run("requires a build dir", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "detect")
		require.Error(t, err)
	})

	t.Run("returns detection errors", func(t *testing.T) {
		boom := errors.New("permission denied")
		_, err := execute(t, &mockApp{detectErr: boom}, "detect", "/tmp/app")
		require.ErrorIs(t, err, boom)
		assert.False(t, commands.IsQuiet(err))
	})

	t.Run("a negative detection is quiet", func(t *testing.T) {
		out, err := execute(t, &mockApp{detectErr: domain.ErrNotDetected}, "detect", "/tmp/app")
		require.ErrorIs(t, err, domain.ErrNotDetected)
		assert.True(t, commands.IsQuiet(err))
		assert.Equal(t, domain.ExitCodeNotDetected, domain.ExitCode(err))
		assert.Empty(t, out)
	})
}

func TestCommands_Compile(t *testing.T) {
	t.Setenv("STACK", "heroku-22")

	m := &mockApp{}
	_, err := execute(t, m, "compile", "/build", "/cache", "/env", "--verbose", "--json-logs")
	require.NoError(t, err)

	require.NotNil(t, m.compile)
	assert.Equal(t, "/build", m.compile.BuildDir)
	assert.Equal(t, "/cache", m.compile.CacheDir)
	assert.Equal(t, "/env", m.compile.EnvDir)
	assert.Equal(t, "heroku-22", m.compile.ProcessEnv.Get("STACK"))
	assert.NotNil(t, m.compile.Stdout)
	assert.Equal(t, app.LogOptions{Verbose: true, JSON: true}, m.logOpts)

	t.Run("requires three directories", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "compile", "/build", "/cache")
		require.Error(t, err)
		assert.Nil(t, m.compile)
	})

	t.Run("quiet shorthand", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "-q", "compile", "/build", "/cache", "/env")
		require.NoError(t, err)
		assert.True(t, m.logOpts.Quiet)
	})

	t.Run("a negative detection during compile is reported", func(t *testing.T) {
		_, err := execute(t, &mockApp{compileErr: domain.ErrNotDetected}, "compile", "/build", "/cache", "/env")
		require.ErrorIs(t, err, domain.ErrNotDetected)
		assert.False(t, commands.IsQuiet(err))
	})
}

func TestCommands_Release(t *testing.T) {
	for _, args := range [][]string{{"release"}, {"release", "/build"}} {
		m := &mockApp{}
		out, err := execute(t, m, args...)
		require.NoError(t, err)
		assert.True(t, m.released)
		assert.Equal(t, "---\n", out)
	}

	_, err := execute(t, &mockApp{}, "release", "/a", "/b")
	require.Error(t, err)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "elixirpack version "+build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "version "+build.Version)
}
