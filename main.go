package main

import "github.com/kebairia/foldup/cmd"

func main() {
	cmd.Execute()
}
