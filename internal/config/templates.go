package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Put Screener Configuration

[scan]
# ROI filter range (premium / strike, percent-like), inclusive bounds
roi_min = 0.20
roi_max = 1.00
# Chance-of-profit filter range (0-1), inclusive bounds
cop_min = 0.70
cop_max = 0.90
# Days-to-expiry window requested from the chain provider
min_dte = 1
max_dte = 45
# Minimum bid, contracts below are not requested
min_bid = 0.05
# Earnings within this many days of a scan raise the conflict flag
earnings_window_days = 30
# Symbols scanned when none are given on the command line
universe = ["AAPL", "MSFT", "AMD", "INTC", "KO"]

[storage]
# Watchlist database location (defaults under the config directory)
# db_path = ""
# Watchlists are keyed per user
default_user = "default"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console
console = true
# Log to rotating file
file = true
# Max log file size in megabytes
max_size = 50
# Number of rotated files to keep
max_backups = 5
# Days to keep rotated files
max_age = 30
`

const credentialsTemplate = `# Put Screener Credentials
# Keep this file private. MARKETDATA_TOKEN overrides the value below.

[marketdata]
token = ""
base_url = "https://api.marketdata.app/v1"
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0644)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
}

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s template: %w", name, err)
	}
	return nil
}
