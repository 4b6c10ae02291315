package cmd

import (
	"context"
	"log"

	"github.com/gkotua/jobradar/internal/logger"
	"github.com/gkotua/jobradar/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultListenAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search pipeline as an HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", "", "listen address (default "+defaultListenAddr+")")
}

func serve(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobradar server", zap.String("version", version))

	service, st, err := buildService(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the search pipeline", zap.Error(err))
	}
	if st != nil {
		defer st.Close()
	}

	addr := cmd.Flag("listen").Value.String()
	if addr == "" && config.Server != nil {
		addr = config.Server.Listen
	}
	if addr == "" {
		addr = defaultListenAddr
	}

	if err := server.New(service, st, logger).Run(addr); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
