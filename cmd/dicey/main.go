package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/zurutech/dicey-go/commands"
)

func main() {
	rootCmd := commands.NewRootCmd(filepath.Base(os.Args[0]))

	if err := rootCmd.Execute(); err != nil {
		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}
