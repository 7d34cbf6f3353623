package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/terry-li-hm/lustro/internal/cli"
)

var version = "dev"

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	if err := cli.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "lustro: %v\n", err)
		os.Exit(1)
	}
}
