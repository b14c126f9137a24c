package main

import "separate-songs/cmd"

func main() {
	cmd.ExecuteTools()
}
