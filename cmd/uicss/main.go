package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"uicss/inspect"
	"uicss/misc"
	"uicss/state"
)

const resolveHelp = `%s
MARKUP:
    path to XHTML or XML file, stylesheets referenced by <link rel="stylesheet" href="...">
    apply to the whole document, data-css="a.css, b.css" attribute adds stylesheets
    for element subtree. Relative references are resolved from markup directory.

DESTINATION:
    file name to write styles to, if absent - STDOUT

First frame is produced before any state is applied, so transitions triggered
by --hover, --focus and --disable are visible in the result.
`

const dumpConfigHelp = `%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Active configuration is composed from default values and values specified in
configuration file. Use --default to see configuration embedded into the program.
`

func main() {
	// watch runs until interrupted
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "resolves CSS styles, transitions and animations for XHTML markup",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          prepareEnv,
		After:           releaseEnv,
		OnUsageError:    passUsageError,
		ExitErrHandler:  logExitError,
		CommandNotFound: unknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "produce report archive with inputs, results and logs to help troubleshooting"},
		},
		Commands: []*cli.Command{
			{
				Name:         "resolve",
				Usage:        "Resolves styles of every element and writes them out (YAML)",
				OnUsageError: passUsageError,
				Action:       inspect.Resolve,
				Flags: append(sheetFlags(),
					&cli.StringSliceFlag{Name: "hover", Usage: "mark elements matching `SELECTOR` as hovered"},
					&cli.StringSliceFlag{Name: "focus", Usage: "mark elements matching `SELECTOR` as focused"},
					&cli.StringSliceFlag{Name: "disable", Usage: "mark elements matching `SELECTOR` as disabled"},
					&cli.StringFlag{Name: "at", Usage: "produce styles at `SECONDS` after state changes, overrides configured duration"},
					&cli.StringFlag{Name: "template", Usage: "format output with Go `TEMPLATE` instead of YAML, sprig functions are available"},
				),
				ArgsUsage:          "MARKUP [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(resolveHelp, cli.CommandHelpTemplate),
			},
			{
				Name:         "watch",
				Usage:        "Re-resolves styles whenever stylesheet files change and logs changed elements",
				OnUsageError: passUsageError,
				Action:       inspect.Watch,
				Flags:        sheetFlags(),
				ArgsUsage:    "MARKUP",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError:       passUsageError,
				Action:             inspect.DumpConfig,
				ArgsUsage:          "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(dumpConfigHelp, cli.CommandHelpTemplate),
			},
		},
	}

	// os.Exit below skips deferred calls, keep this the only one
	var err error
	defer func() {
		stop()
		if err != nil {
			if !errLogged {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func sheetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "css", Usage: "additional stylesheet `FILE` applied to every element after document ones"},
		&cli.StringFlag{Name: "encoding", Usage: "force markup `ENCODING` ignoring its declaration (IANA character set name)"},
	}
}
