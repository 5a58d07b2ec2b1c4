package scripts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
)

// Config holds the configuration for the Runner.
type Config struct {
	PythonPath  string   // Path to Python executable
	ScriptsPath string   // Path to helper scripts directory
	Environment []string // Additional environment variables
}

// Runner executes local Python helper processes (whisper transcription, the
// secondary summarizer model) and parses their JSON stdout.
type Runner struct {
	config Config

	// CommandFunc builds the command to run; tests replace it.
	CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		config:      cfg,
		CommandFunc: exec.CommandContext,
	}
}

// Run executes scriptName with --key value arguments plus bare flags and
// returns its stdout, which must be valid JSON.
func (r *Runner) Run(ctx context.Context, scriptName string, args map[string]string, flags []string) ([]byte, error) {
	const op = "scripts.Runner.Run"
	scriptPath := filepath.Join(r.config.ScriptsPath, scriptName)

	logrus.WithFields(logrus.Fields{
		"script": scriptName,
		"args":   args,
		"flags":  flags,
	}).Debug("Executing script")

	cmd := r.CommandFunc(ctx, r.config.PythonPath, buildArgs(scriptPath, args, flags)...)
	cmd.Dir = r.config.ScriptsPath
	cmd.Env = append(os.Environ(), r.config.Environment...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Timeout(op, ctx.Err(), "Script timed out")
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"script": scriptName,
			"stderr": stderr.String(),
		}).Error("Script execution failed")
		return nil, errors.Processing(op, pkgerrors.Wrap(err, stderr.String()), "Script execution failed")
	}

	output := stdout.Bytes()
	var decoded interface{}
	if err := json.Unmarshal(output, &decoded); err != nil {
		logrus.WithError(err).WithField("output", stdout.String()).Error("Invalid JSON output")
		return nil, errors.Processing(op, err, "Script produced invalid JSON")
	}

	return output, nil
}

// RunInto runs a script and unmarshals its JSON output into v.
func (r *Runner) RunInto(ctx context.Context, scriptName string, args map[string]string, flags []string, v interface{}) error {
	output, err := r.Run(ctx, scriptName, args, flags)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(output, v); err != nil {
		return errors.Processing("scripts.Runner.RunInto", err, "Failed to decode script result")
	}
	return nil
}

func buildArgs(scriptPath string, args map[string]string, flags []string) []string {
	cmdArgs := []string{scriptPath}
	for k, v := range args {
		if v != "" {
			cmdArgs = append(cmdArgs, fmt.Sprintf("--%s", k), v)
		}
	}
	for _, flag := range flags {
		cmdArgs = append(cmdArgs, fmt.Sprintf("--%s", flag))
	}
	return cmdArgs
}
