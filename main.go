package main

import "github.com/KaramelBytes/insightsheet-cli/cmd"

func main() {
	cmd.Execute()
}
