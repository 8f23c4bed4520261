package main

import "github.com/deploymenttheory/go-pst-ndb/cmd"

func main() {
	cmd.Execute()
}
