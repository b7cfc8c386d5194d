package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPathsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "paths {categories|blogs}",
		Short:     "List the slugs the site pre-renders",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"categories", "blogs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Shutdown(context.Background()) }()
			enumerate := app.Paths.CategorySlugs
			if args[0] == "blogs" {
				enumerate = app.Paths.BlogSlugs
			}
			slugs, err := enumerate(cmd.Context())
			if err != nil {
				return fmt.Errorf("enumerate %s: %w", args[0], err)
			}
			w := cmd.OutOrStdout()
			for _, s := range slugs {
				fmt.Fprintln(w, s)
			}
			return nil
		},
	}
}

func newSitemapCmd(root *rootOptions) *cobra.Command {
	var (
		output string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml for the current content",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Shutdown(context.Background()) }()
			manifest := app.Sitemap.Build(cmd.Context())
			if manifest.Degraded() {
				if strict {
					return fmt.Errorf("sitemap incomplete: %w", errors.Join(manifest.Failures...))
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: sitemap is missing content: %v\n", errors.Join(manifest.Failures...))
			}
			if output == "" || output == "-" {
				return manifest.WriteXML(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := manifest.WriteXML(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of writing a sitemap with missing content")
	return cmd
}
