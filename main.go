package main

import "github.com/kjanat/voltamanager/cmd"

func main() {
	cmd.Execute()
}
