package config

import (
	"flag"
	"os"

	"github.com/polawatHuang/mangaara-backend/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p int      HTTP listen port
//	-e string   environment name (development/production/test)
//	-u string   upload base path
//	-k string   admin API key
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components (notably the
// Go test runner).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-e", "-u", "-k"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.IntVar(&config.Port, "p", config.Port, "HTTP listen port")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment name")
	fs.StringVar(&config.UploadBasePath, "u", config.UploadBasePath, "upload base path")
	fs.StringVar(&config.AdminAPIKey, "k", config.AdminAPIKey, "admin API key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
