package main

import "github.com/reloquent/bqddl/cmd"

func main() {
	cmd.Execute()
}
