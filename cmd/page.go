// File: cmd/page.go
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
	"github.com/xkilldash9x/pageutils/internal/config"
)

// json encodes results without HTML escaping, so form encodings print as is.
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// pageOptions are the flags shared by every page command.
type pageOptions struct {
	page string
	out  string
}

func (o *pageOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.page, "page", "p", "-", `HTML page to load ("-" reads stdin)`)
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the page after the command to this file")
}

// pageSession is one loaded page together with the utilities bound to it.
type pageSession struct {
	cmd    *cobra.Command
	cfg    *config.Config
	logger *zap.Logger
	doc    *dom.Document
	utils  *clientutils.Utils
	scope  clientutils.FillScope
	opts   *pageOptions
}

// openPage loads the page named by the flags and binds the utilities to it.
func openPage(cmd *cobra.Command, opts *pageOptions) (*pageSession, error) {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)

	src, err := readPage(cmd, opts.page, cfg.Page().MaxSize)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(bytes.NewReader(src), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	scope, err := clientutils.ParseFillScope(cfg.Fill().Scope)
	if err != nil {
		return nil, err
	}
	logger.Debug("Page loaded.", zap.String("page", opts.page), zap.Int("bytes", len(src)))

	return &pageSession{
		cmd:    cmd,
		cfg:    cfg,
		logger: logger,
		doc:    doc,
		utils:  clientutils.New(doc, logger, clientutils.WithFillScope(scope)),
		scope:  scope,
		opts:   opts,
	}, nil
}

// readPage reads at most maxSize bytes from path or, for "-", from stdin.
func readPage(cmd *cobra.Command, path string, maxSize int64) ([]byte, error) {
	var r io.Reader
	if path == "-" || path == "" {
		r = cmd.InOrStdin()
	} else {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand page path: %w", err)
		}
		f, err := os.Open(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to open page: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("page exceeds the configured maximum of %d bytes", maxSize)
	}
	return data, nil
}

// finish writes the page when --out is set, then prints result as JSON.
func (s *pageSession) finish(result any) error {
	if s.opts.out != "" {
		if err := s.writePage(s.opts.out); err != nil {
			return err
		}
	}
	return writeJSON(s.cmd.OutOrStdout(), result, s.cfg.Page().Pretty)
}

func (s *pageSession) writePage(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand output path: %w", err)
	}
	var buf bytes.Buffer
	if err := s.doc.Render(&buf); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	if err := os.WriteFile(expanded, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	s.logger.Debug("Page written.", zap.String("path", expanded))
	return nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
