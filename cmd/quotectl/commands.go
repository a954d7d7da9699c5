package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"labquote/go_backend/internal/domain/i18n"
	"labquote/go_backend/internal/domain/quote"
	"labquote/go_backend/internal/domain/quote/render"
	"labquote/go_backend/internal/domain/quote/render/gofpdf"
	"labquote/go_backend/internal/domain/quote/render/html"
)

type renderFlags struct {
	input    string
	output   string
	format   string
	lang     string
	currency string
	labName  string
	fontDir  string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Build and render laboratory quotations offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newSampleCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a quotation request payload as pdf, html or json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if f.input != "" && f.input != "-" {
				file, err := os.Open(f.input)
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			out := cmd.OutOrStdout()
			if f.output != "" && f.output != "-" {
				file, err := os.Create(f.output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return runRender(in, out, f)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "-", "request payload file, - for stdin")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVarP(&f.format, "format", "f", "pdf", "output format: pdf, html or json")
	cmd.Flags().StringVar(&f.lang, "lang", "en", "document language: en or ko")
	cmd.Flags().StringVar(&f.currency, "currency", "INR", "ISO 4217 currency code")
	cmd.Flags().StringVar(&f.labName, "lab-name", "", "laboratory name printed in the header")
	cmd.Flags().StringVar(&f.fontDir, "font-dir", "", "directory with DejaVuSans.ttf and DejaVuSans-Bold.ttf")
	return cmd
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print the preview quotation request payload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(quote.SampleRequest())
		},
	}
}

func runRender(in io.Reader, out io.Writer, f renderFlags) error {
	var req quote.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	q, err := quote.NewBuilder(quote.StandardDefaults(), quote.SystemClock{}).Build(req)
	if err != nil {
		return err
	}

	if f.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	}

	var r render.Renderer
	switch f.format {
	case "pdf":
		r = gofpdf.New(f.fontDir)
	case "html":
		r = html.New()
	default:
		return fmt.Errorf("unsupported format %q", f.format)
	}

	unit, err := i18n.ParseCurrency(f.currency)
	if err != nil {
		return fmt.Errorf("currency: %w", err)
	}
	body, err := r.Render(q, render.Options{
		Locale:   i18n.Match(f.lang, ""),
		Currency: unit,
		LabName:  f.labName,
	})
	if err != nil {
		return err
	}
	_, err = out.Write(body)
	return err
}
