package main

import "github.com/KaramelBytes/habitdash/cmd"

func main() {
	cmd.Execute()
}
