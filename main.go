package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ruslany/expense-tracker/cmd/export"
	"github.com/ruslany/expense-tracker/cmd/ingest"
	"github.com/ruslany/expense-tracker/cmd/root"
	"github.com/ruslany/expense-tracker/cmd/serve"
	"github.com/ruslany/expense-tracker/cmd/split"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment variables first so the log level is right before
	// any logger is created.
	loadEnvSilently()
	configureLogLevel()

	root.Init()
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(split.Cmd)
	root.Cmd.AddCommand(split.UnsplitCmd)
}

// loadEnvSilently loads a .env file if one exists, without logging.
func loadEnvSilently() {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return
	}
	_ = godotenv.Load(".env")
}

// configureLogLevel sets the global logrus level before any command runs.
func configureLogLevel() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
