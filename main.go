package main

import "github.com/jsphweid/ssedit/cmd"

func main() {
	cmd.Execute()
}
