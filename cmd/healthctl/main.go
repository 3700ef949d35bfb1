package main

import "github.com/tidepool-org/healthlog/cmd/healthctl/command"

func main() {
	command.Execute()
}
