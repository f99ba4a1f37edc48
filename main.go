package main

import "github.com/topherjaynes/Screenshot-Holmes/cmd"

func main() {
	cmd.Execute()
}
