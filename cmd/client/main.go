package main

import (
	"gymsync/cmd/client/cmd"
)

func main() {
	cmd.Execute()
}
