package cmd

import (
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/i18n"
)

var logger = irmamobile.NewLogger(0, false, false)

var RootCommand = &cobra.Command{
	Use:   "irmawallet",
	Short: "Screens of the IRMA app: render them, serve them over HTTP, or try them in a terminal",
}

func init() {
	flags := RootCommand.PersistentFlags()
	flags.StringP("config", "c", "", "path to configuration file")
	flags.String("language", "", "language of the screens (default: the stored preference, or en)")
	flags.StringSlice("translations", nil, "YAML files overriding builtin translations, named after their language (e.g. nl.yaml)")
	flags.CountP("verbose", "v", "verbose (repeatable)")
	flags.BoolP("quiet", "q", false, "quiet")
	flags.Bool("log-json", false, "Log in JSON format")
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCommand.
func Execute() {
	if err := RootCommand.Execute(); err != nil {
		die(errors.Wrap(err, 0))
	}
}

func die(err *errors.Error) {
	msg := err.Error()
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		msg += "\nStack trace:\n" + string(err.Stack())
	}
	logger.Fatal(msg)
}

// configure binds the flags of cmd to viper, reads the configuration file if any and sets up
// the logger.
func configure(cmd *cobra.Command) error {
	dashReplacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(dashReplacer)
	viper.SetEnvPrefix("IRMAWALLET")
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Locate and read configuration file
	confpath := viper.GetString("config")
	if confpath != "" {
		dir, file := filepath.Dir(confpath), filepath.Base(confpath)
		viper.SetConfigName(strings.TrimSuffix(file, filepath.Ext(file)))
		viper.AddConfigPath(dir)
	} else {
		viper.SetConfigName("irmawallet")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/irmawallet/")
		viper.AddConfigPath("$HOME/.irmawallet")
	}
	err := viper.ReadInConfig() // Hold error checking until we know how much of it to log

	logger = irmamobile.NewLogger(viper.GetInt("verbose"), viper.GetBool("quiet"), viper.GetBool("log-json"))
	irmamobile.SetLogger(logger)
	logger.WithFields(logrus.Fields{
		"version":   irmamobile.Version,
		"verbosity": irmamobile.Verbosity(viper.GetInt("verbose")),
	}).Debug("irmawallet running")

	if err != nil {
		if _, notfound := err.(viper.ConfigFileNotFoundError); notfound {
			logger.Debug("No configuration file found")
		} else {
			return errors.WrapPrefix(err, "Failed to unmarshal configuration file at "+viper.ConfigFileUsed(), 0)
		}
	} else {
		logger.Info("Config file: ", viper.ConfigFileUsed())
	}

	return nil
}

// loadCatalog returns the builtin translations, overridden by the files given with
// --translations.
func loadCatalog() (*i18n.Catalog, error) {
	catalog, err := i18n.Load()
	if err != nil {
		return nil, err
	}
	if files := viper.GetStringSlice("translations"); len(files) > 0 {
		if err = catalog.LoadFiles(files...); err != nil {
			return nil, errors.WrapPrefix(err, "Failed to load translations", 0)
		}
	}
	return catalog, nil
}

// language returns the language given with --language, falling back to fallback if it is not
// set or the catalog has no translations for it.
func language(catalog *i18n.Catalog, fallback string) string {
	lang := viper.GetString("language")
	if lang == "" {
		lang = fallback
	}
	for _, l := range catalog.Languages() {
		if l == lang {
			return lang
		}
	}
	if lang != "" {
		logger.Warnf("No translations for language %s, using %s", lang, i18n.DefaultLanguage)
	}
	return i18n.DefaultLanguage
}
