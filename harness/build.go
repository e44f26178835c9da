package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Flags names the command line flags an implementation accepts. An empty
// flag is unsupported by that implementation.
type Flags struct {
	Algorithm string
	Strategy  string
	Length    string
	Name      string
	Max       string
	JSON      string
	Perf      string
}

// goFlags is the flag set of this module's own run command.
var goFlags = Flags{
	Algorithm: "-a",
	Strategy:  "-s",
	Length:    "-l",
	Name:      "-y",
	Max:       "-m",
	JSON:      "-j",
	Perf:      "-p",
}

// KnownLanguages returns the list of supported implementation names.
func KnownLanguages() []string {
	return []string{"self", "go", "python", "deno", "cpp"}
}

// ResolveBinary returns the expected program path for a language given the
// implementations root directory. For interpreted languages this is the
// entry script or package.
func ResolveBinary(implDir, language string) string {
	switch language {
	case "self":
		exe, err := os.Executable()
		if err != nil {
			return os.Args[0]
		}

		return exe
	case "go":
		return filepath.Join(implDir, "go", "algogauge")
	case "python":
		return filepath.Join(
			implDir, "python", "src", "AlgoGauge_bradleypeterson",
		)
	case "deno":
		return filepath.Join(implDir, "javascript", "AlgoGauge.mjs")
	case "cpp":
		return filepath.Join(implDir, "cpp", "build", "AlgoGauge")
	default:
		return filepath.Join(implDir, language, "algogauge-"+language)
	}
}

// Build compiles the implementation for a language and returns the
// program path. Interpreted languages need no build.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	implDir string,
	language string,
) (string, error) {
	srcDir := filepath.Join(implDir, language)
	binPath := ResolveBinary(implDir, language)

	logger.InfoContext(ctx, "building implementation",
		slog.String("language", language),
		slog.String("source_dir", srcDir),
	)

	var cmd *exec.Cmd

	switch language {
	case "self", "python", "deno":
		return binPath, nil

	case "go":
		cmd = exec.CommandContext(
			ctx, "go", "build", "-o", binPath, "./cmd/algogauge",
		)
		cmd.Dir = srcDir

	case "cpp":
		cmd = exec.CommandContext(
			ctx, "cmake", "--build", "build", "--config", "Release",
		)
		cmd.Dir = srcDir

	default:
		return "", fmt.Errorf("unknown language %q", language)
	}

	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build %s: %w", language, err)
	}

	if _, err := os.Stat(binPath); err != nil {
		return "", fmt.Errorf(
			"build %s: binary not found at %s", language, binPath,
		)
	}

	logger.InfoContext(ctx, "implementation built",
		slog.String("language", language),
		slog.String("binary", binPath),
	)

	return binPath, nil
}

// CommandConfig holds the resolved command, extra arguments, environment
// variables and flag spelling needed to run an implementation.
type CommandConfig struct {
	Binary    string
	ExtraArgs []string
	Env       []string
	Flags     Flags
}

// WrapCommand returns the exec configuration needed to run an
// implementation. Compiled implementations run directly; python and deno
// need their interpreter.
func WrapCommand(language, binPath string) CommandConfig {
	switch language {
	case "self", "go":
		return CommandConfig{
			Binary:    binPath,
			ExtraArgs: []string{"run"},
			Flags:     goFlags,
		}
	case "python":
		return CommandConfig{
			Binary:    "python3",
			ExtraArgs: []string{binPath},
			Flags: Flags{
				Algorithm: "-a",
				Strategy:  "-s",
				Length:    "-l",
				Name:      "-n",
				Max:       "-m",
				JSON:      "-j",
			},
		}
	case "deno":
		return CommandConfig{
			Binary:    "deno",
			ExtraArgs: []string{"run", "--allow-read", binPath},
			Flags: Flags{
				Algorithm: "-a",
				Strategy:  "-s",
				Length:    "-n",
				Name:      "-y",
				Max:       "-m",
				JSON:      "-j",
				Perf:      "-p",
			},
		}
	default:
		return CommandConfig{Binary: binPath, Flags: goFlags}
	}
}
