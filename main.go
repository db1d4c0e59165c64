package main

import "semdex/cmd"

func main() {
	cmd.Execute()
}
