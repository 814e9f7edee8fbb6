package main

import "github.com/robmorgan/scorefollow/cmd"

func main() {
	cmd.Execute()
}
