package cmd

import (
	"net"
	"net/smtp"
	"os"
	"path/filepath"
	"time"

	"github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/controller"
	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/internal/democlient"
	"github.com/privacybydesign/irmamobile/store"
)

// wallet is a demo app: the store, controller and navigation on top of the demo client.
type wallet struct {
	storage  *store.Storage
	client   *democlient.Client
	ctrl     *controller.Controller
	nav      *controller.RouteStack
	catalog  *i18n.Catalog
	language string
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "irmawallet")
}

func setWalletFlags(flags *pflag.FlagSet) map[string]string {
	flags.String("data-dir", defaultDataDir(), "directory in which preferences and enrollment are stored (empty: in memory only)")

	flags.String("pin", democlient.DefaultPin, "keyshare PIN of the demo client")
	flags.Int("max-attempts", democlient.DefaultMaxAttempts, "incorrect PINs after which the demo keyshare server blocks")
	flags.Duration("block-duration", democlient.DefaultBlockDuration, "duration of a keyshare block")
	flags.Duration("latency", 500*time.Millisecond, "simulated duration of a round trip to a server")

	flags.String("email-server", "", "SMTP server (host:port) for error reports (leave empty to only log them)")
	flags.String("email-from", "", "sender address of error reports")
	flags.String("report-to", "", "address to which error reports are sent")
	flags.String("email-username", "", "SMTP username")
	flags.String("email-password", "", "SMTP password")

	return map[string]string{
		"data-dir":     "Storage",
		"pin":          "Demo client",
		"email-server": "Error reports",
	}
}

// openWallet starts a wallet configured by the flags of setWalletFlags.
func openWallet() (*wallet, error) {
	w := &wallet{nav: controller.NewRouteStack(controller.Route{Name: controller.RouteHome})}

	var err error
	if w.catalog, err = loadCatalog(); err != nil {
		return nil, err
	}

	if dir := viper.GetString("data-dir"); dir != "" {
		if w.storage, err = store.OpenStorage(dir); err != nil {
			return nil, errors.WrapPrefix(err, "Failed to open storage", 0)
		}
		logger.Debug("Storage: ", dir)
	}
	s, err := store.New(w.storage)
	if err != nil {
		return nil, w.closeWith(err)
	}

	var mailer controller.Mailer
	if viper.GetString("email-server") != "" {
		smtpMailer, err := controller.NewSMTPMailer(mailConfiguration())
		if err != nil {
			return nil, w.closeWith(err)
		}
		mailer = smtpMailer
	}

	w.client, err = democlient.New(democlient.Options{
		Pin:           viper.GetString("pin"),
		MaxAttempts:   viper.GetInt("max-attempts"),
		BlockDuration: viper.GetDuration("block-duration"),
		Latency:       viper.GetDuration("latency"),
	})
	if err != nil {
		return nil, w.closeWith(err)
	}
	w.ctrl = controller.New(s, w.client, w.nav, mailer, controller.Options{
		KeyshareManager: irmamobile.NewSchemeManagerIdentifier(democlient.DemoManager),
	})
	w.client.Start(w.ctrl)

	w.language = language(w.catalog, s.State().Preferences.Language)
	if viper.GetString("language") != "" {
		s.Dispatch(store.PreferenceSet{Key: store.PreferenceLanguage, Value: w.language})
	}
	return w, nil
}

func mailConfiguration() controller.MailConfiguration {
	conf := controller.MailConfiguration{
		EmailServer: viper.GetString("email-server"),
		EmailFrom:   viper.GetString("email-from"),
		ReportTo:    viper.GetString("report-to"),
	}
	if username := viper.GetString("email-username"); username != "" {
		host, _, err := net.SplitHostPort(conf.EmailServer)
		if err != nil {
			host = conf.EmailServer
		}
		conf.EmailAuth = smtp.PlainAuth("", username, viper.GetString("email-password"), host)
	}
	return conf
}

func (w *wallet) closeWith(err error) error {
	if e := w.Close(); e != nil {
		return multierror.Append(err, e)
	}
	return err
}

// Close stops the demo client and closes the storage.
func (w *wallet) Close() error {
	var mErr *multierror.Error
	if w.client != nil {
		mErr = multierror.Append(mErr, w.client.Close())
	}
	if w.storage != nil {
		mErr = multierror.Append(mErr, w.storage.Close())
	}
	return mErr.ErrorOrNil()
}
