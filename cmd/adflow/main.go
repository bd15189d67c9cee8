package main

import (
	"github.com/adflow-io/adflow/cmd/adflow/cmd"
)

func main() {
	cmd.Execute()
}
