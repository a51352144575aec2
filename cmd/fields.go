// File: cmd/fields.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

// valueOptions control how field values given on the command line are read.
type valueOptions struct {
	json bool
}

func (o *valueOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "decode each value as JSON (true, 3, null, [\"a\",\"b\"])")
}

// parse converts a raw argument to a field value.
func (o *valueOptions) parse(raw string) (any, error) {
	if !o.json {
		return raw, nil
	}
	var v any
	if err := json.UnmarshalFromString(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON value %q: %w", raw, err)
	}
	return v, nil
}

// parseValues turns one argument into a scalar and several into a list.
func (o *valueOptions) parseValues(raw []string) (any, error) {
	if len(raw) == 1 {
		return o.parse(raw[0])
	}
	list := make([]any, 0, len(raw))
	for _, r := range raw {
		v, err := o.parse(r)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

// fieldRef builds a field reference from the --by flag.
func fieldRef(by, field string) (clientutils.FieldRef, error) {
	switch strings.ToLower(by) {
	case "", "name":
		return clientutils.ByName(field), nil
	case "selector":
		return clientutils.BySelector(field), nil
	default:
		return nil, fmt.Errorf("unknown field reference %q (want \"name\" or \"selector\")", by)
	}
}

// newSetCmd creates the `set` command.
func newSetCmd() *cobra.Command {
	opts := &pageOptions{}
	values := &valueOptions{}
	var by, kind string

	cmd := &cobra.Command{
		Use:   "set <field> <value>...",
		Short: "Assigns a value to a form field",
		Long: `Assigns a value to the field named by <field>, choosing the strategy from
the control kind: text controls take the value verbatim, radios check the
member whose value matches, checkboxes check by truthiness or list membership
and selects select the matching options. Several values form a list.

--kind restricts the assignment to one control kind and fails on any other.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := fieldRef(by, args[0])
			if err != nil {
				return err
			}
			value, err := values.parseValues(args[1:])
			if err != nil {
				return err
			}

			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}

			switch strings.ToLower(kind) {
			case "", "any":
				err = s.utils.SetFieldValue(ref, value)
			case "checkbox":
				err = s.utils.SetCheckboxValue(ref, value)
			case "radio":
				err = s.utils.SetRadioValue(ref, value)
			case "select":
				err = s.utils.SetSelectValue(ref, value)
			default:
				return fmt.Errorf("unknown control kind %q", kind)
			}
			if err != nil {
				return err
			}

			current, err := s.utils.GetFieldValue(ref)
			if err != nil {
				return err
			}
			s.logger.Info("Field set.", zap.String("field", ref.String()))
			return s.finish(current)
		},
	}
	opts.register(cmd)
	values.register(cmd)
	cmd.Flags().StringVar(&by, "by", "name", `how <field> is resolved: "name" or "selector"`)
	cmd.Flags().StringVar(&kind, "kind", "any", `expected control kind: "any", "checkbox", "radio" or "select"`)
	return cmd
}

// newGetCmd creates the `get` command.
func newGetCmd() *cobra.Command {
	opts := &pageOptions{}
	var by string

	cmd := &cobra.Command{
		Use:   "get <field>",
		Short: "Prints the current value of a form field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := fieldRef(by, args[0])
			if err != nil {
				return err
			}
			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			value, err := s.utils.GetFieldValue(ref)
			if err != nil {
				return err
			}
			return s.finish(value)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&by, "by", "name", `how <field> is resolved: "name" or "selector"`)
	return cmd
}

// parseFieldFlags turns repeated name=value flags into ordered fields.
// Repeating a name collects its values into a list at the position of its
// first occurrence.
func parseFieldFlags(raw []string, values *valueOptions) (clientutils.Fields, error) {
	var fields clientutils.Fields
	index := make(map[string]int)
	repeated := make(map[string]bool)
	for _, entry := range raw {
		name, rawValue, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q (want name=value)", entry)
		}
		value, err := values.parse(rawValue)
		if err != nil {
			return nil, err
		}

		i, seen := index[name]
		switch {
		case !seen:
			index[name] = len(fields)
			fields = append(fields, clientutils.Field{Name: name, Value: value})
		case repeated[name]:
			fields[i].Value = append(fields[i].Value.([]any), value)
		default:
			repeated[name] = true
			fields[i].Value = []any{fields[i].Value, value}
		}
	}
	return fields, nil
}

// newFillCmd creates the `fill` command.
func newFillCmd() *cobra.Command {
	opts := &pageOptions{}
	values := &valueOptions{}
	var rawFields []string
	var scope string

	cmd := &cobra.Command{
		Use:   "fill <form-selector>",
		Short: "Fills the fields of a form in the order given",
		Long: `Fills the form matching <form-selector> with the --field name=value pairs,
in the order given. Repeating a name passes a list (checkbox groups, multiple
selects). Prints false without error when the form does not exist. The first
failing field aborts the fill; earlier fields stay filled.`,
		Example: `  pageutils fill '#signup' -p page.html --field email=a@b.c --field lang=go --field lang=js
  pageutils fill form --json --field news=true --field age=42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldFlags(rawFields, values)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("scope") {
				cfg, err := getConfigFromContext(cmd.Context())
				if err != nil {
					return err
				}
				cfg.SetFillScope(scope)
				fillCfg := cfg.Fill()
				if err := fillCfg.Validate(); err != nil {
					return err
				}
			}

			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			filled, err := s.utils.Fill(args[0], fields)
			if err != nil {
				return err
			}
			s.logger.Info("Fill finished.",
				zap.String("form", args[0]),
				zap.Bool("filled", filled),
				zap.Stringer("scope", s.scope))
			return s.finish(filled)
		},
	}
	opts.register(cmd)
	values.register(cmd)
	cmd.Flags().StringArrayVarP(&rawFields, "field", "f", nil, "field to fill as name=value (repeatable)")
	cmd.Flags().StringVar(&scope, "scope", "form", `where field names are looked up: "form" or "document"`)
	return cmd
}

// newValuesCmd creates the `values` command.
func newValuesCmd() *cobra.Command {
	opts := &pageOptions{}
	var urlencoded bool

	cmd := &cobra.Command{
		Use:   "values <form-selector>",
		Short: "Prints the name/value pairs the form would submit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openPage(cmd, opts)
			if err != nil {
				return err
			}
			formValues, err := s.utils.FormValues(args[0])
			if err != nil {
				return err
			}
			if urlencoded {
				return s.finish(clientutils.EncodeFormValues(formValues))
			}
			return s.finish(formValues)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&urlencoded, "urlencoded", false, "print the values as an application/x-www-form-urlencoded string")
	return cmd
}
