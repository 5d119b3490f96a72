package main

import "github.com/camden-git/familyring/cmd"

func main() {
	cmd.Execute()
}
