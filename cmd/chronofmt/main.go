// chronofmt - format and parse calendar timestamps from the command line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronofmt/chronofmt/pkg/chrono"
	"github.com/chronofmt/chronofmt/pkg/config"
	"github.com/chronofmt/chronofmt/pkg/format"
	"github.com/chronofmt/chronofmt/pkg/registry"
	"github.com/chronofmt/chronofmt/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	layoutName  string
	patternFlag string
	zoneFlag    string
	pivotYear   int
	atFlag      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.Errorf("%v", err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chronofmt",
	Short: "chronofmt - format and parse timestamps",
	Long: `chronofmt formats calendar instants as text and parses text back into
instants, using a catalog of named layouts plus user-defined patterns.

Run "chronofmt layouts" to see the catalog.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the layout catalog",
	Long: `List every named layout with its capabilities. Layouts declared in the
configuration file appear alongside the built-ins.`,
	Args: cobra.NoArgs,
	RunE: runLayouts,
}

var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Parse a timestamp",
	Long: `Parse a timestamp into an instant.

With --pattern or --layout the text must match that layout exactly.
Without either, every parse-capable layout is tried in catalog order.

Examples:
  chronofmt parse 2010-03-11T17:55:36.123Z
  chronofmt parse --layout mysql "2010-03-11 17:55:36"
  chronofmt parse --pattern dd.MM.yyyy --pivot 2050 11.03.51`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Render a sample timestamp",
	Long: `Render an instant with a pattern or a named layout. The instant
defaults to now; pass --at with any parseable timestamp to change it.

Examples:
  chronofmt format --layout rfc1123
  chronofmt format --pattern "EEEE, MMMM d" --at 2010-03-11`,
	Args: cobra.NoArgs,
	RunE: runFormat,
}

func init() {
	parseCmd.Flags().StringVar(&layoutName, "layout", "", "named layout to parse with")
	parseCmd.Flags().StringVar(&patternFlag, "pattern", "", "pattern to parse with")
	parseCmd.Flags().StringVar(&zoneFlag, "zone", "", "IANA zone for layouts without an offset")
	parseCmd.Flags().IntVar(&pivotYear, "pivot", 0, "pivot year for two-digit years")

	formatCmd.Flags().StringVar(&layoutName, "layout", "", "named layout to render with")
	formatCmd.Flags().StringVar(&patternFlag, "pattern", "", "pattern to render with")
	formatCmd.Flags().StringVar(&zoneFlag, "zone", "", "IANA zone to render in")
	formatCmd.Flags().StringVar(&atFlag, "at", "", "instant to render (default now)")

	rootCmd.AddCommand(layoutsCmd, parseCmd, formatCmd, scanCmd)
}

// loadCatalog builds the process catalog: built-ins plus configured
// layouts.
func loadCatalog() (*registry.Catalog, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, nil, err
	}
	return cat, cfg, nil
}

func runLayouts(cmd *cobra.Command, args []string) error {
	cat, _, err := loadCatalog()
	if err != nil {
		return err
	}
	fmt.Print(tui.RenderCatalog(cat.List()))
	return nil
}

// pickFormatter resolves the --pattern/--layout flags against the
// catalog, applying --zone and --pivot.
func pickFormatter(cat *registry.Catalog, needParse bool) (*format.Formatter, error) {
	var f *format.Formatter
	switch {
	case patternFlag != "":
		var err error
		f, err = format.New(patternFlag)
		if err != nil {
			return nil, err
		}
	case layoutName != "":
		e, ok := cat.Lookup(layoutName)
		if !ok {
			return nil, fmt.Errorf("unknown layout %q", layoutName)
		}
		if needParse && !e.CanParse {
			return nil, fmt.Errorf("layout %q is print-only", layoutName)
		}
		if !needParse && !e.CanPrint {
			return nil, fmt.Errorf("layout %q is parse-only", layoutName)
		}
		f = e.Formatter
	default:
		return nil, nil
	}

	if zoneFlag != "" {
		loc, err := time.LoadLocation(zoneFlag)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", zoneFlag, err)
		}
		f = f.WithZone(loc)
	}
	if pivotYear != 0 {
		f = f.WithPivotYear(pivotYear)
	}
	return f, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	cat, _, err := loadCatalog()
	if err != nil {
		return err
	}
	f, err := pickFormatter(cat, true)
	if err != nil {
		return err
	}

	var instant chrono.Instant
	if f != nil {
		instant, err = f.Parse(args[0])
	} else {
		instant, err = cat.ParseAny(args[0])
	}
	if err != nil {
		return err
	}

	fmt.Println(tui.Success("parsed " + tui.Code(args[0])))
	fmt.Printf("  %s %s\n", tui.Muted("instant:"), tui.Title(instant.String()))
	fmt.Printf("  %s %d\n", tui.Muted("unix-nanos:"), int64(instant))
	if text, err := cat.PrintAs("rfc1123", instant); err == nil {
		fmt.Printf("  %s %s\n", tui.Muted("rfc1123:"), text)
	}
	return nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	cat, _, err := loadCatalog()
	if err != nil {
		return err
	}
	f, err := pickFormatter(cat, false)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("format needs --pattern or --layout")
	}

	instant := chrono.At(time.Now())
	if atFlag != "" {
		instant, err = cat.ParseAny(atFlag)
		if err != nil {
			return err
		}
	}

	fmt.Println(f.Print(instant))
	return nil
}
