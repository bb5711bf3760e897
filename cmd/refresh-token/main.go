package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/browser"
	"github.com/urfave/cli/v3"

	"kwresearch/internal/config"
	"kwresearch/internal/logging"
	"kwresearch/internal/refreshtoken"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	app := &cli.Command{
		Name:  "refresh-token",
		Usage: "Obtain a Google Ads refresh token and save it to the env file",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Local port for the OAuth2 redirect",
				Value:   8080,
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Env file the refresh token is written to",
				Value: cfg.EnvFile,
			},
			&cli.StringFlag{
				Name:  "issuer",
				Usage: "OpenID Connect issuer used to discover the OAuth2 endpoints",
				Value: refreshtoken.DefaultIssuer,
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL without opening a browser",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, cfg)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logging.Error().Err(err).Msg("refresh-token failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	if cfg.GoogleAdsClientID == "" || cfg.GoogleAdsClientSecret == "" {
		return refreshtoken.ErrMissingClient
	}

	endpoint, err := refreshtoken.DiscoverEndpoint(ctx, cmd.String("issuer"))
	if err != nil {
		return err
	}

	port := int(cmd.Int("port"))
	helper, err := refreshtoken.New(refreshtoken.Config{
		ClientID:     cfg.GoogleAdsClientID,
		ClientSecret: cfg.GoogleAdsClientSecret,
		Port:         port,
		EnvFile:      cmd.String("env-file"),
		Endpoint:     endpoint,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("localhost", strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	authURL := helper.AuthURL()
	if !cmd.Bool("no-browser") {
		fmt.Println("\nOpening browser to authorize application...")
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
		if err := browser.OpenURL(authURL); err != nil {
			logging.Warn().Err(err).Msg("Could not open browser automatically")
		}
	}
	fmt.Printf("\nIf the browser does not open automatically, please visit:\n%s\n\n", authURL)

	if err := helper.Run(ctx, ln); err != nil {
		return err
	}

	select {
	case <-helper.Done():
		fmt.Println("\nServer closed. You can close this terminal window.")
	default:
	}
	return nil
}
