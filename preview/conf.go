package preview

import (
	"github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/i18n"
)

// Configuration contains configuration for the preview server.
type Configuration struct {
	// Address to listen on
	ListenAddress string `json:"listen_addr" mapstructure:"listen-addr"`
	// Port to listen on
	Port int `json:"port" mapstructure:"port"`
	// Origins that may access the server from a browser. Defaults to all origins.
	AllowedOrigins []string `json:"allowed_origins" mapstructure:"allowed-origins"`
	// Stream view updates at /events
	EnableSSE bool `json:"enable_sse" mapstructure:"sse"`
	// Language in which views are rendered
	Language string `json:"language" mapstructure:"language"`

	Verbose int  `json:"verbose" mapstructure:"verbose"`
	Quiet   bool `json:"quiet" mapstructure:"quiet"`
	LogJSON bool `json:"log_json" mapstructure:"log-json"`

	Logger *logrus.Logger `json:"-" mapstructure:"-"`

	// Translations used when rendering views. Loaded from the builtin catalogs if nil.
	Catalog *i18n.Catalog `json:"-" mapstructure:"-"`
}

// Check fills in defaults and ensures the configuration is usable.
func (conf *Configuration) Check() error {
	if conf.Logger == nil {
		conf.Logger = irmamobile.NewLogger(conf.Verbose, conf.Quiet, conf.LogJSON)
	}
	if conf.Port == 0 {
		conf.Port = 8089
	}
	if conf.Language == "" {
		conf.Language = i18n.DefaultLanguage
	}
	if len(conf.AllowedOrigins) == 0 {
		conf.AllowedOrigins = []string{"*"}
	}

	var mErr *multierror.Error
	if conf.Port < 0 || conf.Port > 65535 {
		mErr = multierror.Append(mErr, errors.Errorf("port %d out of range", conf.Port))
	}
	if conf.Catalog == nil {
		catalog, err := i18n.Load()
		if err != nil {
			mErr = multierror.Append(mErr, errors.WrapPrefix(err, "failed to load translations", 0))
		}
		conf.Catalog = catalog
	}
	if conf.Catalog != nil && !contains(conf.Catalog.Languages(), conf.Language) {
		mErr = multierror.Append(mErr, errors.Errorf("no translations for language %s", conf.Language))
	}
	return mErr.ErrorOrNil()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
