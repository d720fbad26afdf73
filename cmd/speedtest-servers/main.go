// Speedtest Servers
//
// Prints the sponsor and host address of every public speedtest.net server,
// one "sponsor: host" line per server, in the order the endpoint returns them.
//
// Author: Krea University
// Version: 1.0.0
// License: MIT

package main

import (
	"context"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/Krea-University/speedtest-servers/internal/config"
	"github.com/Krea-University/speedtest-servers/internal/serverlist"
)

func main() {
	// Diagnostics go to stderr so stdout only carries server lines
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)

	os.Exit(run(nil, os.Stdout))
}

// run lists the servers to stdout and returns the process exit status
func run(client *http.Client, stdout io.Writer) int {
	log.WithField("version", config.Version).Debug("Starting")

	if err := serverlist.New(client).FetchAndPrint(context.Background(), stdout); err != nil {
		log.WithError(err).Error("Failed to list servers")
		return 1
	}
	return 0
}
