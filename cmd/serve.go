package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching API over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from server.addr or NAWASENA_ADDR)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := setup(ctx)
	rt.logger.Info("starting the nawasena api",
		zap.String("version", version),
		zap.Bool("ai_enabled", rt.service.AIEnabled()),
	)

	server := api.NewServer(rt.service, rt.stats, rt.logger)
	if err := server.Run(ctx, rt.config.Server.Addr); err != nil {
		rt.logger.Fatal("serving http", zap.Error(err))
	}
	rt.logger.Info("exiting", zap.String("reason", "shutdown requested"))
}
