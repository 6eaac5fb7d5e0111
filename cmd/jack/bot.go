package main

import (
	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	jack "github.com/mutablelogic/go-jack"
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	command "github.com/mutablelogic/go-jack/pkg/ui/command"
	telegram "github.com/mutablelogic/go-jack/pkg/ui/telegram"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type BotCmd struct {
	Token        string `name:"token" env:"JACK_TELEGRAM_TOKEN" required:"" help:"Telegram bot token"`
	AllowedUsers string `name:"allowed-users" env:"JACK_ALLOWED_USERS" required:"" help:"Comma-separated Telegram user ids allowed to use the bot"`
	Concurrency  int    `name:"concurrency" default:"8" help:"Number of messages handled at once"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *BotCmd) Run(ctx *Globals) (err error) {
	users, err := telegram.ParseUsers(cmd.AllowedUsers)
	if err != nil {
		return err
	} else if len(users) == 0 {
		return jack.ErrBadParameter.With("JACK_ALLOWED_USERS is empty")
	}

	// Check the configuration before connecting
	router, err := ctx.Router()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "BotCmd")
	defer func() { endSpan(err) }()

	bot, err := telegram.New(cmd.Token, users)
	if err != nil {
		return err
	}
	defer bot.Close()

	logger.Named("bot").WithFields(logger.Fields{
		"mode":  ctx.Mode,
		"agent": router.HasAgent(),
		"users": len(users),
	}).Info("started")

	return command.New(router, 0).Serve(parent, bot, cmd.Concurrency)
}
