package main

import (
	"os"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	jack "github.com/mutablelogic/go-jack"
	agent "github.com/mutablelogic/go-jack/pkg/agent"
	cli "github.com/mutablelogic/go-jack/pkg/cli"
	forestapi "github.com/mutablelogic/go-jack/pkg/forestapi"
	forestcli "github.com/mutablelogic/go-jack/pkg/forestcli"
	portfolio "github.com/mutablelogic/go-jack/pkg/portfolio"
	openrouter "github.com/mutablelogic/go-jack/pkg/provider/openrouter"
	router "github.com/mutablelogic/go-jack/pkg/router"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ModeAPI = "api"
	ModeCLI = "cli"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Backend returns the knowledge-base backend for the configured mode
func (g *Globals) Backend() (jack.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(g.Mode)) {
	case ModeAPI:
		if strings.TrimSpace(g.ForestAPIKey) == "" {
			return nil, jack.ErrBadParameter.With("JACK_FOREST_API_KEY is required in api mode")
		}
		if forest, err := forestapi.New(g.ForestURL, g.ForestAPIKey, g.clientOpts()...); err != nil {
			return nil, err
		} else {
			return forest, nil
		}
	case ModeCLI:
		if forest, err := forestcli.New(g.ForestBin, g.cliOpts()...); err != nil {
			return nil, err
		} else {
			return forest, nil
		}
	default:
		return nil, jack.ErrBadParameter.Withf("unknown mode %q, expected %q or %q", g.Mode, ModeAPI, ModeCLI)
	}
}

// Agent returns the agent, or nil when no completion provider key is set
func (g *Globals) Agent() (*agent.Agent, error) {
	if strings.TrimSpace(g.OpenRouterKey) == "" {
		return nil, nil
	}
	completer, err := openrouter.New(g.OpenRouterURL, g.OpenRouterKey, g.OpenRouterModel, g.clientOpts()...)
	if err != nil {
		return nil, err
	}
	opts := []agent.Opt{
		agent.WithTracer(g.tracer),
	}
	if g.tel != nil {
		opts = append(opts, agent.WithMeter(g.tel.Meter(g.execName)))
	}
	if g.ParallelTools {
		opts = append(opts, agent.WithParallelTools())
	}
	return agent.New(completer, opts...)
}

// Router returns a router over the backend, with the portfolio tools in
// cli mode and the agent when one is configured
func (g *Globals) Router() (*router.Router, error) {
	backend, err := g.Backend()
	if err != nil {
		return nil, err
	}
	opts := []router.Opt{}
	if strings.ToLower(strings.TrimSpace(g.Mode)) == ModeCLI {
		ideas, err := portfolio.NewIdeas(g.IcliBin, g.cliOpts()...)
		if err != nil {
			return nil, err
		}
		novels, err := portfolio.NewNovels(g.NcliBin, g.cliOpts()...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, router.WithPortfolio(ideas, novels))
	}
	if a, err := g.Agent(); err != nil {
		return nil, err
	} else if a != nil {
		opts = append(opts, router.WithAgent(a, agent.DefaultSystemPrompt))
	}
	return router.New(backend, opts...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (g *Globals) clientOpts() []client.ClientOpt {
	opts := []client.ClientOpt{}
	if g.Debug || g.Verbose {
		opts = append(opts, client.OptTrace(os.Stderr, g.Verbose))
	}
	if g.tracer != nil {
		opts = append(opts, client.OptTracer(g.tracer))
	}
	return opts
}

func (g *Globals) cliOpts() []cli.Opt {
	opts := []cli.Opt{}
	if g.tracer != nil {
		opts = append(opts, cli.WithTracer(g.tracer))
	}
	return opts
}
