package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Debug    bool   `env:"LINKDEX_DEBUG" help:"Enable debug logging."`
	Manifest string `short:"m" help:"Path to the resource manifest (YAML)." placeholder:"FILE"`
	Index    string `help:"Path to the URL index file (JSON)." placeholder:"FILE"`

	Add        AddCmd        `cmd:"" help:"Add a resource to the catalog."`
	Import     ImportCmd     `cmd:"" help:"Import resources from a YAML batch file."`
	Remove     RemoveCmd     `cmd:"" help:"Remove a URL from the index."`
	Check      CheckCmd      `cmd:"" help:"Check whether a URL is already cataloged."`
	Similar    SimilarCmd    `cmd:"" help:"Find indexed URLs similar to a given one."`
	Rebuild    RebuildCmd    `cmd:"" help:"Rebuild the URL index from the manifest."`
	Stats      StatsCmd      `cmd:"" help:"Show index statistics."`
	Tags       TagsCmd       `cmd:"" help:"Inspect and validate the tag hierarchy."`
	Render     RenderCmd     `cmd:"" help:"Render the catalog as markdown or JSON."`
	CheckLinks CheckLinksCmd `cmd:"" name:"check-links" help:"Probe every cataloged URL and report dead links."`
	MCP        MCPCmd        `cmd:"" name:"mcp" help:"Run the catalog MCP server on stdio."`
}

func main() {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("linkdex"),
		kong.Description("Curated link catalog with URL deduplication and a tag hierarchy."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			os.Exit(code)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linkdex: %v\n", err)
		os.Exit(1)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	setupLogger(cli.Debug)

	cfg, err := loadUserConfig()
	if err != nil {
		slog.Warn("could not read user config, using defaults", "error", err)
		cfg = defaultConfig()
	}
	applyOverrides(&cfg, cli.Manifest, cli.Index)

	ctx.Bind(&cfg)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
