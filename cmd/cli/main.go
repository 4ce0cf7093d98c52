package main

import "github.com/discolinks/discolinks/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
