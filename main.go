package main

import "github.com/KaramelBytes/glance-cli/cmd"

func main() {
	cmd.Execute()
}
