package main

import "github.com/jdehlin/aigent/cmd"

func main() {
	cmd.Execute()
}
