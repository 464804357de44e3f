package cmd

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/privacybydesign/irmamobile/tui"
	"github.com/privacybydesign/irmamobile/ui/render"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Try the screens of a demo wallet in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(command *cobra.Command, args []string) error {
		if err := configure(command); err != nil {
			return errors.WrapPrefix(err, "Failed to read configuration", 0)
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("tui needs an interactive terminal")
		}
		// log output would corrupt the screen
		if viper.GetString("log-file") == "" {
			logger.SetOutput(io.Discard)
		} else {
			f, err := os.OpenFile(viper.GetString("log-file"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
			if err != nil {
				return errors.WrapPrefix(err, "Failed to open log file", 0)
			}
			defer f.Close()
			logger.SetOutput(f)
		}

		w, err := openWallet()
		if err != nil {
			return errors.WrapPrefix(err, "Failed to start wallet", 0)
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("Failed to close wallet: ", err.Error())
			}
		}()

		theme := render.DefaultTheme
		if viper.GetBool("plain") {
			theme = render.PlainTheme
		}
		model := tui.NewModel(w.ctrl, w.nav, w.client, w.catalog.Translator(w.language), theme)
		defer model.Close()

		if _, err = tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return errors.WrapPrefix(err, "Failed to run TUI", 0)
		}
		return nil
	},
}

func init() {
	RootCommand.AddCommand(tuiCmd)

	flags := tuiCmd.Flags()
	flags.SortFlags = false
	flags.Bool("plain", false, "render without colors")
	flags.String("log-file", "", "file to which log output is appended (default: discard logs)")
	headers := setWalletFlags(flags)
	headers["plain"] = "Display"
	useHeaders(tuiCmd, headers)
}
