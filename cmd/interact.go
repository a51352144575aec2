// File: cmd/interact.go
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newClickCmd creates the `click` command.
func newClickCmd() *cobra.Command {
	opts := &pageOptions{}
	cmd := &cobra.Command{
		Use:   "click <selector>",
		Short: "Dispatches a synthetic mouse click at the first matching element",
		Long: `Dispatches a bubbling, cancelable click at the first element matching the
selector. Prints false when nothing matches or a listener cancelled the click.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			return s.finish(s.utils.Click(args[0]))
		},
	}
	opts.register(cmd)
	return cmd
}

// newExistsCmd creates the `exists` command.
func newExistsCmd() *cobra.Command {
	opts := &pageOptions{}
	cmd := &cobra.Command{
		Use:   "exists <selector>",
		Short: "Reports whether a selector matches any element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			return s.finish(s.utils.Exists(args[0]))
		},
	}
	opts.register(cmd)
	return cmd
}

// newFireOnCmd creates the `fire-on` command.
func newFireOnCmd() *cobra.Command {
	opts := &pageOptions{}
	cmd := &cobra.Command{
		Use:   "fire-on <selector> <method>",
		Short: "Calls a named element method and prints its result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			result, err := s.utils.FireOn(args[0], args[1])
			if err != nil {
				return err
			}
			s.logger.Info("Method invoked.", zap.String("selector", args[0]), zap.String("method", args[1]))
			return s.finish(result)
		},
	}
	opts.register(cmd)
	return cmd
}

// newFireCmd creates the `fire` command.
func newFireCmd() *cobra.Command {
	opts := &pageOptions{}
	cmd := &cobra.Command{
		Use:   "fire <selector> <event-type>",
		Short: "Dispatches a bubbling, cancelable event at the first matching element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			ok, err := s.utils.Fire(args[0], args[1])
			if err != nil {
				return err
			}
			return s.finish(ok)
		},
	}
	opts.register(cmd)
	return cmd
}
