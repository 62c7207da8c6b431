package main

import "github.com/twiced-technology-gmbh/mioplan/cmd"

func main() {
	cmd.Execute()
}
