package main

import "github.com/jsphweid/songforge/cmd"

func main() {
	cmd.Execute()
}
