package main

import "github.com/park285/chess-recap/cmd/chess-recap/cmd"

func main() {
	cmd.Execute()
}
