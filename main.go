package main

import "github.com/user/pinsync/cmd"

func main() {
	cmd.Execute()
}
