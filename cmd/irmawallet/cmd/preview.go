package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/privacybydesign/irmamobile/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve the state and screens of a demo wallet over HTTP",
	Args:  cobra.NoArgs,
	Run: func(command *cobra.Command, args []string) {
		if err := configure(command); err != nil {
			die(errors.WrapPrefix(err, "Failed to read configuration", 0))
		}
		w, err := openWallet()
		if err != nil {
			die(errors.WrapPrefix(err, "Failed to start wallet", 0))
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("Failed to close wallet: ", err.Error())
			}
		}()

		conf := &preview.Configuration{
			ListenAddress:  viper.GetString("listen-addr"),
			Port:           viper.GetInt("port"),
			AllowedOrigins: viper.GetStringSlice("allowed-origins"),
			EnableSSE:      viper.GetBool("sse"),
			Language:       w.language,
			Verbose:        viper.GetInt("verbose"),
			Quiet:          viper.GetBool("quiet"),
			LogJSON:        viper.GetBool("log-json"),
			Logger:         logger,
			Catalog:        w.catalog,
		}
		serv, err := preview.New(conf, w.ctrl, w.nav, w.client)
		if err != nil {
			die(errors.WrapPrefix(err, "Failed to configure server", 0))
		}

		stopped := make(chan struct{})
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		go func() {
			if err := serv.Start(); err != nil {
				die(errors.WrapPrefix(err, "Failed to start server", 0))
			}
			conf.Logger.Debug("Server stopped")
			stopped <- struct{}{}
		}()

		for {
			select {
			case <-interrupt:
				conf.Logger.Debug("Caught interrupt")
				serv.Stop() // causes serv.Start() above to return
				conf.Logger.Debug("Sent stop signal to server")
			case <-stopped:
				conf.Logger.Info("Exiting")
				close(stopped)
				close(interrupt)
				return
			}
		}
	},
}

func init() {
	RootCommand.AddCommand(previewCmd)

	flags := previewCmd.Flags()
	flags.SortFlags = false
	flags.IntP("port", "p", 8089, "port at which to listen")
	flags.StringP("listen-addr", "l", "", "address at which to listen (default 0.0.0.0)")
	flags.StringSlice("allowed-origins", nil, "origins allowed to access the server from a browser (default *)")
	flags.Bool("sse", true, "stream the rendered screens at /events after every state change")
	headers := setWalletFlags(flags)
	headers["port"] = "Server address and port to listen on"
	useHeaders(previewCmd, headers)
}
