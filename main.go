package main

import "staysync/cmd"

func main() {
	cmd.Execute()
}
