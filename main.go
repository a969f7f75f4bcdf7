package main

import "github.com/KaramelBytes/examstat-cli/cmd"

func main() {
	cmd.Execute()
}
