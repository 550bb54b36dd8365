package main

import "github.com/relayio/chatrelay/internal/cli"

func main() {
	cli.Execute()
}
