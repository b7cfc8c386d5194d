// Command dailyworld runs the Daily World Blog site and its SEO tooling.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dailyworld/blogfront"
	"github.com/dailyworld/blogfront/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

type rootOptions struct {
	envFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "dailyworld",
		Short: "Daily World Blog front end",
		Long: `dailyworld serves the public Daily World Blog site from the content API
and exposes the SEO building blocks (paths, sitemap) as commands.

Configuration is read from the environment, optionally seeded from a .env file:
  SITE_NAME, SITE_URL, API_URL, SESSION_SECRET, ADDR, REQUEST_TIMEOUT, ...`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newPathsCmd(opts),
		newSitemapCmd(opts),
		newVersionCmd(),
	)
	return root
}

// newApp loads configuration and builds the app. A missing env file is
// not an error; variables already in the environment win over the file.
func (o *rootOptions) newApp(extra ...blogfront.Option) (*blogfront.App, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := blogfront.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	opts := append([]blogfront.Option{blogfront.WithLogger(blogfront.NewLogger(o.logLevel))}, extra...)
	return blogfront.New(cfg, views.Default(), opts...), nil
}
