package main

import (
	"github.com/tidepool-org/healthlog/api"
)

func main() {
	api.MainLoop()
}
