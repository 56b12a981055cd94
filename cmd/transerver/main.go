package main

import "fmt"
import "os"
import "os/signal"
import "syscall"

import "github.com/spf13/cobra"

import "tsquorum/pkg/config"
import "tsquorum/pkg/httpservice"
import "tsquorum/pkg/logger"
import "tsquorum/pkg/tserver"

var Log = clog.NewCustomLog("main")

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use: "transerver",
		Short: "transaction server page-server quorum coordinator",
	}

	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())

	if runErr := root.Execute(); runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use: "serve",
		Short: "start the transaction server and block until shutdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use: "version",
		Short: "print the transaction server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func serve() error {
	cfg, cfgErr := config.Load()
	if cfgErr != nil { return cfgErr }

	server, serverErr := tserver.New(cfg)
	if serverErr != nil { return serverErr }

	if bootErr := server.Boot(); bootErr != nil {
		server.DisconnectAllPageServers()
		return bootErr
	}
	defer server.DisconnectAllPageServers()

	admin := httpservice.NewAdminService(cfg.MetricsAddr, server)
	admin.Start()

	Log.Info("transaction server up, page servers:", cfg.PageServerHosts)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<- sig

	Log.Info("shutting down")

	return nil
}
