package main

import "github.com/robalobadob/wordle-solver/cmd"

func main() {
	cmd.Execute()
}
