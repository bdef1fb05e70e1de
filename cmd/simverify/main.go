package main

import "github.com/vsrsim/verifier/cmd/simverify/cmd"

func main() {
	cmd.Execute()
}
