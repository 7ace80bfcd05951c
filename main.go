package main

import "github.com/hivecore/hivemon/cmd"

func main() {
	cmd.Execute()
}
