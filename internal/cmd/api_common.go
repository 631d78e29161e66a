package cmd

import "github.com/spf13/pflag"

const (
	bearerF = "bearer"
	debugF  = "debug"
	apiURLF = "api-url"
	configF = "config"
)

var (
	bearer     string
	debug      bool
	apiURL     string
	configPath string
)

func getBearer() string     { return bearer }
func getDebug() bool        { return debug }
func getAPIURL() string     { return apiURL }
func getConfigPath() string { return configPath }

func setAPIFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&bearer, bearerF, "", "Bearer `token` for HTTP 'Authorization' header")
	flagSet.BoolVar(&debug, debugF, false, "log HTTP calls and sync steps to stderr")
	flagSet.StringVar(&apiURL, apiURLF, "", "GraphQL endpoint URL")
	flagSet.StringVar(&configPath, configF, "", "path to a YAML config file")

	for _, name := range []string{debugF, apiURLF, configF} {
		_ = flagSet.MarkHidden(name)
	}
}
