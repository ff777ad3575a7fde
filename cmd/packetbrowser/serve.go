package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NeedsSoySauce/Packet-Browser/internal/api"
)

type serveFlags struct {
	common     commonFlags
	listenAddr string
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve host listings, packet tables and size edits over HTTP",
		Long: `Open a trace file and serve it over HTTP until interrupted.

Endpoints:
  GET /api/v1/hosts?side=source|destination
  GET /api/v1/ports?side=source|destination
  GET /api/v1/packets?mode=&filter=&side=&ip=&port=&src=&dest=
  GET /api/v1/stats
  PUT /api/v1/packets/{line}/size   body: {"value": "1500"}

Press Ctrl+C to stop the server gracefully.`,
		Example: `  packetbrowser serve --input trace.txt --listen 127.0.0.1:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return runServe(cmd, flags)
		},
	}

	registerCommonFlags(cmd, &flags.common)
	registerProgressFlag(cmd, &flags.common)
	cmd.Flags().StringVar(&flags.listenAddr, "listen", "", "Listen address (default serve.listen_addr from config)")

	return cmd
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	session, cfg, logger, err := openSession(cmd, &flags.common)
	if err != nil {
		return err
	}
	defer logger.Close()

	addr := cfg.Serve.ListenAddr
	if flags.listenAddr != "" {
		addr = flags.listenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.NewServer(session, logger).ListenAndServe(ctx, addr)
}
