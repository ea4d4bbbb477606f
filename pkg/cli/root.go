package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/modsearch/pkg/config"
	"github.com/platinummonkey/modsearch/pkg/index"
	"github.com/platinummonkey/modsearch/pkg/modinfo"
	"github.com/platinummonkey/modsearch/pkg/observability"
	"github.com/platinummonkey/modsearch/pkg/search"
)

// app holds state shared by all commands
type app struct {
	indexURL    string
	format      string
	timeout     time.Duration
	concurrency int
	verbose     bool

	logger  *observability.Logger
	service *search.Service
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "modsearch-cli",
		Short:             "modsearch - search plugin modules in the module index",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.indexURL, "index-url", index.DefaultBaseURL, "Module index base URL")
	flags.StringVar(&a.format, "format", string(modinfo.FormatDocstring), "Metadata format (docstring, header)")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "Upstream request timeout")
	flags.IntVar(&a.concurrency, "concurrency", search.DefaultConcurrency, "Concurrent module fetches (0 = unbounded)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log upstream activity to stderr")

	root.AddCommand(newSearchCommand(a))
	root.AddCommand(newInspectCommand(a))

	return root
}

// setup merges configuration with the flags that were set and builds the
// search service.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("index-url") {
		cfg.Index.URL = a.indexURL
	}
	if flags.Changed("format") {
		cfg.Search.MetadataFormat = a.format
	}
	if flags.Changed("timeout") {
		cfg.Index.Timeout = a.timeout
	}
	if flags.Changed("concurrency") {
		cfg.Search.FetchConcurrency = a.concurrency
	}

	format, err := modinfo.ParseFormat(cfg.Search.MetadataFormat)
	if err != nil {
		return err
	}

	level := observability.WarnLevel
	if a.verbose {
		level = observability.DebugLevel
	}
	a.logger = observability.NewTextLogger(level, cmd.ErrOrStderr())

	client, err := index.NewClient(cfg.Index.URL,
		index.WithTimeout(cfg.Index.Timeout),
		index.WithUserAgent(cfg.Index.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("cannot use index %q: %w", cfg.Index.URL, err)
	}

	a.service = search.NewService(client,
		search.WithFormat(format),
		search.WithConcurrency(cfg.Search.FetchConcurrency),
		search.WithDefaultLimit(cfg.Search.DefaultLimit),
		search.WithMaxLimit(cfg.Search.MaxLimit),
		search.WithLogger(a.logger),
	)
	return nil
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func writeLine(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}
