package main

import "arena-sync/cmd"

func main() {
	cmd.Execute()
}
