package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/internal/fs"
	"github.com/privacybydesign/irmamobile/internal/democlient"
	"github.com/privacybydesign/irmamobile/session"
	"github.com/privacybydesign/irmamobile/ui"
	"github.com/privacybydesign/irmamobile/ui/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print a screen for a given state",
	Long: `Print a screen for a given state, either as the view tree in JSON (--json) or as it
would appear in the terminal.`,
}

var renderChangePinCmd = &cobra.Command{
	Use:   "changepin",
	Short: "Print the change-PIN screen",
	Args:  cobra.NoArgs,
	RunE: func(command *cobra.Command, args []string) error {
		flags := command.Flags()
		if err := configure(command); err != nil {
			return err
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		name, _ := flags.GetString("status")
		attempts, _ := flags.GetInt("remaining-attempts")
		timeout, _ := flags.GetDuration("timeout")
		state := changepin.Initial()
		state.Status = changepin.ParseStatus(name, attempts, timeout, sessionError(flags))
		state.ValidationForced, _ = flags.GetBool("validation-forced")

		view := changepin.View(state, catalog.Translator(language(catalog, "en")))
		return printView(command, view)
	},
}

var renderSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print the signing session screen",
	Long: `Print the signing session screen. The requested attributes are those of the demo
request, and the candidates for them are taken from the credentials of the demo client.`,
	Args: cobra.NoArgs,
	RunE: func(command *cobra.Command, args []string) error {
		flags := command.Flags()
		if err := configure(command); err != nil {
			return err
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		status, _ := flags.GetString("status")
		action, _ := flags.GetString("action")
		serverName, _ := flags.GetString("server-name")
		message, _ := flags.GetString("message")
		attempts, _ := flags.GetInt("remaining-attempts")
		blocked, _ := flags.GetDuration("blocked-duration")
		manager, _ := flags.GetString("manager")
		forced, _ := flags.GetBool("validation-forced")

		request := democlient.DemoRequest()
		conf := democlient.DemoConfiguration()
		disjunctions, missing := democlient.Candidates(conf, democlient.DemoCredentials(time.Now()), request)
		s := &session.Session{
			ID:                1,
			Action:            irmamobile.Action(action),
			Status:            session.Status(status),
			ServerName:        irmamobile.NewTranslatedString(serverName),
			Message:           message,
			Disjunctions:      disjunctions,
			Missing:           missing,
			RemainingAttempts: attempts,
			BlockedDuration:   blocked,
			Manager:           irmamobile.NewSchemeManagerIdentifier(manager),
			Error:             sessionError(flags),
		}

		view := session.View(session.Props{
			Session:          s,
			ValidationForced: forced,
			Configuration:    conf,
		}, catalog.Translator(language(catalog, "en")))
		return printView(command, view)
	},
}

// sessionError returns the error given by the --error-type and --error-info flags, if any.
func sessionError(flags *pflag.FlagSet) *irmamobile.SessionError {
	errorType, _ := flags.GetString("error-type")
	if errorType == "" {
		return nil
	}
	info, _ := flags.GetString("error-info")
	return &irmamobile.SessionError{ErrorType: irmamobile.ErrorType(errorType), Info: info}
}

func printView(command *cobra.Command, view *ui.Node) error {
	outPath, _ := command.Flags().GetString("out")
	out := command.OutOrStdout()

	var text string
	if asJson, _ := command.Flags().GetBool("json"); asJson {
		bts, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return errors.WrapPrefix(err, "Failed to serialize view", 0)
		}
		text = string(bts)
	} else {
		theme, width := render.PlainTheme, 72
		if plain, _ := command.Flags().GetBool("plain"); !plain && outPath == "" && isTerminal(out) {
			theme = render.DefaultTheme
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				width = w
			}
		}
		text = render.New(theme, width).Render(view)
	}

	if outPath != "" {
		if err := fs.SaveFile(outPath, []byte(text+"\n")); err != nil {
			return errors.WrapPrefix(err, "Failed to write view", 0)
		}
		logger.Debug("View written to ", outPath)
		return nil
	}
	_, err := fmt.Fprintln(out, text)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func setRenderFlags(flags *pflag.FlagSet) {
	flags.Bool("json", false, "print the view tree as JSON")
	flags.Bool("plain", false, "render without colors")
	flags.StringP("out", "o", "", "write the view to this file instead of stdout")
	flags.Bool("validation-forced", false, "show validation errors of empty inputs")
	flags.String("error-type", "", "type of the session error")
	flags.String("error-info", "", "additional information of the session error")
}

func init() {
	RootCommand.AddCommand(renderCmd)
	renderCmd.AddCommand(renderChangePinCmd)
	renderCmd.AddCommand(renderSessionCmd)

	flags := renderChangePinCmd.Flags()
	flags.SortFlags = false
	flags.String("status", changepin.NameStarted, "status of the change")
	flags.Int("remaining-attempts", 0, "remaining PIN attempts after an incorrect PIN")
	flags.Duration("timeout", 0, "duration of the keyshare block")
	setRenderFlags(flags)
	useHeaders(renderChangePinCmd, map[string]string{
		"status": "State",
		"json":   "Output",
	})

	flags = renderSessionCmd.Flags()
	flags.SortFlags = false
	flags.String("status", string(session.StatusRequestPermission), "status of the session")
	flags.String("action", string(irmamobile.ActionSigning), "action of the session")
	flags.String("server-name", "Demo shop", "name of the requestor")
	flags.String("message", "Please confirm your age", "message to be signed")
	flags.Int("remaining-attempts", -1, "remaining PIN attempts after an incorrect PIN (negative: none entered yet)")
	flags.Duration("blocked-duration", 0, "duration of the keyshare block")
	flags.String("manager", democlient.DemoManager, "scheme manager of the keyshare server")
	setRenderFlags(flags)
	useHeaders(renderSessionCmd, map[string]string{
		"status": "State",
		"json":   "Output",
	})
}
