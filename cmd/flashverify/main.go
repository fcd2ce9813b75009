package main

import "github.com/javi11/flashverify/cmd/flashverify/cmd"

func main() {
	cmd.Execute()
}
