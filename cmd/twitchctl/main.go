package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/streamkit/go-twitch-client/internal/config"
	ierrors "github.com/streamkit/go-twitch-client/internal/errors"
	"github.com/streamkit/go-twitch-client/token"
	"github.com/streamkit/go-twitch-client/token/rediscache"
	"github.com/streamkit/go-twitch-client/twitch"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("twitchctl failed")
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		return ierrors.ErrNoCommand
	}

	creds := token.Credentials{
		ClientID:     c.GetClientID(),
		ClientSecret: c.GetClientSecret(),
	}
	if creds.ClientID == "" {
		return ierrors.ErrMissingClientID
	}
	if creds.ClientSecret == "" {
		return ierrors.ErrMissingClientSecret
	}

	cache, err := rediscache.New(rediscache.Options{
		Addr:     c.GetRedisAddr(),
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
	})
	if err != nil {
		return ierrors.Wrapf(err, "connecting to redis")
	}
	defer cache.Close()

	manager := token.New(creds, cache,
		token.WithTokenURL(c.GetTokenURL()),
		token.WithCacheKey(c.GetTokenCacheKey()),
	)

	client, err := twitch.New(creds, manager, twitch.WithBaseURL(c.GetAPIBaseURL()))
	if err != nil {
		return ierrors.Wrapf(err, "building twitch client")
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Authorize(ctx); err != nil {
		return ierrors.Wrapf(err, "authorizing twitch api")
	}

	return dispatch(ctx, client, args)
}

func dispatch(ctx context.Context, client *twitch.Client, args []string) error {
	switch args[0] {
	case "channels":
		if len(args) < 2 {
			return ierrors.ErrMissingIDs
		}
		channels, err := client.FetchChannels(ctx, args[1:])
		if err != nil {
			return err
		}
		return printJSON(channels)
	case "games":
		if len(args) < 2 {
			return ierrors.ErrMissingIDs
		}
		games, err := client.FetchGames(ctx, args[1:])
		if err != nil {
			return err
		}
		return printJSON(games)
	case "subscriptions":
		return dispatchSubscriptions(ctx, client, args[1:])
	default:
		usage()
		return ierrors.Wrapf(ierrors.ErrUnknownCommand, "%q", args[0])
	}
}

func dispatchSubscriptions(ctx context.Context, client *twitch.Client, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		subscriptions, err := client.ListEventSubSubscriptions(ctx)
		if err != nil {
			return err
		}
		return printJSON(subscriptions)
	}

	switch args[0] {
	case "delete":
		if len(args) < 2 {
			return ierrors.ErrMissingIDs
		}
		if err := client.DeleteEventSubSubscription(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("deleted subscription %s\n", args[1])
		return nil
	default:
		usage()
		return ierrors.Wrapf(ierrors.ErrUnknownCommand, "subscriptions %q", args[0])
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: twitchctl <command>

commands:
  channels <broadcaster-id>...     fetch channel information
  games <game-id>...               fetch game information
  subscriptions [list]             list eventsub subscriptions
  subscriptions delete <id>        delete an eventsub subscription`)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
