// File: cmd/eval.go
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/jsexec"
)

// newEvalCmd creates the `eval` command.
func newEvalCmd() *cobra.Command {
	opts := &pageOptions{}
	values := &valueOptions{json: true}
	var scriptFile string
	var rawArgs []string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "eval [script]",
		Short: "Runs a script against the page with the utilities installed",
		Long: `Runs JavaScript against the loaded page. The page is exposed as document and
the utilities namespace as a global (runtime.utils_global, "__utils__" by
default). A script written as a function expression is called with the --arg
values, each decoded as JSON. The script result is printed as JSON.`,
		Example: `  pageutils eval -p page.html '__utils__.fill("form", {q: "go"}) && __utils__.click("#go")'
  pageutils eval -p page.html --arg '"#go"' 'function (sel) { return __utils__.exists(sel) }'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := loadScript(args, scriptFile)
			if err != nil {
				return err
			}
			scriptArgs := make([]interface{}, 0, len(rawArgs))
			for _, raw := range rawArgs {
				v, err := values.parse(raw)
				if err != nil {
					return err
				}
				scriptArgs = append(scriptArgs, v)
			}

			if cmd.Flags().Changed("timeout") {
				cfg, err := getConfigFromContext(cmd.Context())
				if err != nil {
					return err
				}
				cfg.SetScriptTimeout(timeout)
			}

			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			runtime := jsexec.NewRuntime(s.logger, s.doc, jsexec.Options{
				Timeout:     s.cfg.Runtime().ScriptTimeout,
				UtilsGlobal: s.cfg.Runtime().UtilsGlobal,
				FillScope:   s.scope,
			})

			result, err := runtime.ExecuteScript(cmd.Context(), script, scriptArgs)
			if err != nil {
				return err
			}
			s.logger.Info("Script executed.", zap.Int("script_bytes", len(script)))
			return s.finish(result)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&scriptFile, "file", "", "read the script from this file")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "JSON argument passed to a function script (repeatable)")
	cmd.Flags().DurationVar(&timeout, "timeout", jsexec.DefaultTimeout, "script execution timeout")
	return cmd
}

// loadScript returns the inline script or the contents of scriptFile.
// Exactly one of the two must be given.
func loadScript(args []string, scriptFile string) (string, error) {
	switch {
	case len(args) == 1 && scriptFile != "":
		return "", errors.New("give the script inline or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case scriptFile != "":
		path, err := homedir.Expand(scriptFile)
		if err != nil {
			return "", fmt.Errorf("failed to expand script path: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read script: %w", err)
		}
		return string(data), nil
	default:
		return "", errors.New("no script given")
	}
}
