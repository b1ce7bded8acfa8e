package main

import "github.com/insightdelivered/statement-normalizer/cmd"

func main() {
	cmd.Execute()
}
