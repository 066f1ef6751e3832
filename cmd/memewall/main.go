package main

import "github.com/phanxgames/memewall/cmd/memewall/cmd"

func main() {
	cmd.Execute()
}
