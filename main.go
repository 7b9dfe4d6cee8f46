package main

import "github.com/klidoop/fire-calculation/cmd"

func main() {
	cmd.Execute()
}
