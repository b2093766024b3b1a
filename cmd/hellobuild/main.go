package main

import "github.com/cloudnautic/hellobuild/cmd/hellobuild/cmd"

func main() {
	cmd.Execute()
}
