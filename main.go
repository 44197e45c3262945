package main

import "github.com/winstoncvm/jcal/cmd"

func main() {
	cmd.Execute()
}
