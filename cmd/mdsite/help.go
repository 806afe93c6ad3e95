package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsite <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render a notes directory into a static site")
	fmt.Fprintln(w, "  render     Render a single note to HTML")
	fmt.Fprintln(w, "  styles     Print or list code highlighting styles")
	fmt.Fprintln(w, "  config     Print the resolved configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdsite help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsite build [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every note under dir and copy the other files next to them.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Content directory (optional if config has input.dir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Site output directory (default: public)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-note render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --drafts              Publish draft notes")
	fmt.Fprintln(w)
	printSiteUsage(w)
	printAssetUsage(w)
	printOutputControlUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsite render <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a single note to a full HTML page on stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <file>       Write the page to a file")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printSiteUsage(w)
	printAssetUsage(w)
	printOutputControlUsage(w)
}

func printSiteUsage(w io.Writer) {
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --title <s>           Site title")
	fmt.Fprintln(w, "      --base-url <url>      Absolute site URL for canonical links")
	fmt.Fprintln(w, "      --base-path <path>    Path the site is served under (/blog)")
	fmt.Fprintln(w, "      --route <path>        Route prefix of note pages (default: /n)")
	fmt.Fprintln(w, "      --lang <tag>          Document language (en, fr-CA)")
	fmt.Fprintln(w, "      --date-format <s>     Note date format")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, cjk")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Posted] MMMM D")
	fmt.Fprintln(w)
}

func printAssetUsage(w io.Writer) {
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   Stylesheet name or CSS file")
	fmt.Fprintln(w, "      --code-style <name>   Chroma style for code blocks (see 'mdsite styles --list')")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/, scripts/ and templates/")
	fmt.Fprintln(w)
}

func printOutputControlUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json, pretty")
}

// printStylesUsage prints usage for the styles command.
func printStylesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsite styles [name] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the CSS of a code highlighting style (default: github).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -l, --list                List site stylesheets and code styles")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdsite config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after applying the config file and MDSITE_* variables.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "styles":
		printStylesUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdsite version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdsite help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}
