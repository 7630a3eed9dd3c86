/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic.
	ParseFlags must be called from main, never from init, otherwise it swallows
	the flags of `go test`.
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
	AdminTool = "admin"
)

var (
	IsDevelopment = flag.Bool("dev", true, "set to true if the current run is for development. default value is true")
	ServiceName   = flag.String("service", APIServer, "'api_server' or 'admin'")
	ListenAddr    = flag.String("listen", ":8000", "serve HTTP at this `ip:port`")
)

func ParseFlags() {
	flag.Parse()
}
