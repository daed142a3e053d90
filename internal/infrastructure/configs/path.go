package configs

import (
	"flag"
	"os"

	"github.com/paircall/paircall/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location from the --config
// flag, the PAIRCALL_CONFIG env var, then a few conventional paths. An empty
// result is fine: the service runs on defaults plus env overrides.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("PAIRCALL_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/paircall/config.yaml",
			"/app/config.yaml",
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
