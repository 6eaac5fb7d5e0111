package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	godotenv "github.com/joho/godotenv"
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	telemetry "github.com/mutablelogic/go-jack/pkg/telemetry"
	version "github.com/mutablelogic/go-jack/pkg/version"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Logging and telemetry
	Log struct {
		Level  string `name:"level" env:"JACK_LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)"`
		Format string `name:"format" env:"JACK_LOG_FORMAT" default:"text" enum:"text,json" help:"Log format (text, json)"`
	} `embed:"" prefix:"log."`
	OTel struct {
		Exporter string `name:"exporter" env:"JACK_OTEL_EXPORTER" default:"none" enum:"none,stdout,otlp" help:"Telemetry exporter (none, stdout, otlp)"`
		Endpoint string `name:"endpoint" env:"JACK_OTEL_ENDPOINT" help:"OTLP collector URL"`
	} `embed:"" prefix:"otel."`

	// Knowledge base and tools
	Forest     `embed:"" help:"Forest configuration"`
	Portfolio  `embed:"" help:"Portfolio configuration"`
	OpenRouter `embed:"" help:"Completion provider configuration"`

	// Context
	ctx      context.Context
	execName string
	tel      *telemetry.Telemetry
	tracer   trace.Tracer
}

type Forest struct {
	Mode         string `name:"mode" env:"JACK_MODE" default:"api" help:"Backend mode (api, cli)"`
	ForestBin    string `name:"forest-bin" env:"JACK_FOREST_BIN" default:"forest" help:"Forest binary, in cli mode"`
	ForestURL    string `name:"forest-url" env:"JACK_FOREST_URL" default:"http://localhost:3000" help:"Forest server, in api mode"`
	ForestAPIKey string `name:"forest-api-key" env:"JACK_FOREST_API_KEY" help:"Forest API key, in api mode"`
}

type Portfolio struct {
	IcliBin string `name:"icli-bin" env:"JACK_ICLI_BIN" default:"icli" help:"Portfolio binary, in cli mode"`
	NcliBin string `name:"ncli-bin" env:"JACK_NCLI_BIN" default:"ncli" help:"Novel binary, in cli mode"`
}

type OpenRouter struct {
	OpenRouterKey   string `name:"openrouter-api-key" env:"JACK_OPENROUTER_API_KEY" help:"Completion provider API key, which enables the agent"`
	OpenRouterModel string `name:"openrouter-model" env:"JACK_OPENROUTER_MODEL" default:"anthropic/claude-sonnet-4" help:"Model"`
	OpenRouterURL   string `name:"openrouter-url" env:"JACK_OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1" help:"Completion provider base URL"`
	ParallelTools   bool   `name:"parallel-tools" env:"JACK_PARALLEL_TOOLS" help:"Run read-only tool calls concurrently"`
}

type CLI struct {
	Globals

	// Chat
	Bot  BotCmd  `cmd:"" help:"Run the Telegram bot"`
	Chat ChatCmd `cmd:"" help:"Chat with the bot in the terminal"`
	Ask  AskCmd  `cmd:"" help:"Ask the agent a single question"`

	// Knowledge base
	Search SearchCmd `cmd:"" help:"Search the knowledge base"`
	Read   ReadCmd   `cmd:"" help:"Read a node"`
	Stats  StatsCmd  `cmd:"" help:"Show knowledge base statistics"`

	// Information
	Tools   ToolsCmd   `cmd:"" help:"List the tools offered to the model"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	name := execName()

	// Values from .env act as environment defaults
	envErr := godotenv.Load()

	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(name),
		kong.Description("Jack, a companion for the Forest knowledge base"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		cmd.FatalIfErrorf(envErr)
	}

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = name

	// Logging
	level := cli.Log.Level
	if cli.Debug {
		level = "debug"
	}
	cmd.FatalIfErrorf(logger.Configure(level, cli.Log.Format, os.Stderr))

	// Telemetry
	tel, err := telemetry.New(ctx, name, version.Version(), telemetry.Config{
		Exporter: cli.OTel.Exporter,
		Endpoint: cli.OTel.Endpoint,
	})
	cmd.FatalIfErrorf(err)
	cli.Globals.tel = tel
	cli.Globals.tracer = tel.Tracer(name)

	// Run the command, then flush telemetry
	err = cmd.Run(&cli.Globals)
	if err := tel.Shutdown(context.Background()); err != nil {
		logger.Named("telemetry").WithError(err).Warn("shutdown")
	}
	cmd.FatalIfErrorf(err)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
