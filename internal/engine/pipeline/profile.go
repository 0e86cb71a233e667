package pipeline

import (
	"errors"
	"os"
	"path"
	"strings"

	"go.trai.ch/elixirpack/internal/core/domain"
)

// ProfileScript puts the installed toolchains on the PATH of the running
// application and of later buildpacks.
func ProfileScript() string {
	tools := path.Join("$HOME", domain.PlatformToolsDir)
	lines := []string{
		"export PATH=" + strings.Join([]string{
			path.Join(tools, domain.RuntimeCacheDir, "bin"),
			path.Join(tools, domain.LanguageCacheDir, "bin"),
			"$PATH",
		}, ":"),
		"export LC_CTYPE=${LC_CTYPE:-" + domain.DefaultEnv["LC_CTYPE"] + "}",
		"export MIX_ENV=${MIX_ENV:-" + domain.DefaultEnv["MIX_ENV"] + "}",
	}
	return strings.Join(lines, "\n") + "\n"
}

// writeProfileScript installs the profile script and appends it to the export
// file read by the next buildpack.
func writeProfileScript(layout domain.Layout) error {
	script := ProfileScript()

	if err := os.MkdirAll(layout.AppPath(domain.ProfileDir), domain.DirPerm); err != nil {
		return err
	}
	if err := os.WriteFile(layout.ProfileScriptPath(), []byte(script), domain.FilePerm); err != nil {
		return err
	}

	export, err := os.OpenFile( //nolint:gosec // the export file lives in the application directory
		layout.AppPath(domain.ExportFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return err
	}
	_, err = export.WriteString("\n" + script)
	return errors.Join(err, export.Close())
}
