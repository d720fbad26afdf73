// Package config handles application configuration and constants
package config

const (
	// ServerListURL is the speedtest.net endpoint listing public test servers
	ServerListURL = "https://www.speedtest.net/api/js/servers?engine=js"

	// Version represents the current application version
	Version = "1.0.0"
)
