package main

import "github.com/samhoang/skilo/cmd"

func main() {
	cmd.Execute()
}
