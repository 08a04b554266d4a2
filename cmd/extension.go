package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// IsBuiltin reports whether name is one of the application's subcommands or
// a subcommands builtin.
func IsBuiltin(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// RunExtension attempts to find and execute an external pdash-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The extension receives the resolved configuration in its environment.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "pdash-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv(cfg)...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the configuration as environment variables.
func extensionEnv(cfg *Config) []string {
	return []string{
		EnvBackendURL + "=" + cfg.BackendURL,
		EnvSnapshotFile + "=" + cfg.SnapshotFile,
		EnvAddr + "=" + cfg.Addr,
		EnvRefresh + "=" + cfg.Refresh.String(),
		EnvLogLevel + "=" + cfg.LogLevel,
		EnvLogPretty + "=" + strconv.FormatBool(cfg.LogPretty),
		EnvFallbackUSDRate + "=" + cfg.FallbackUSDRate.String(),
		EnvDevMode + "=" + strconv.FormatBool(cfg.DevMode),
	}
}
