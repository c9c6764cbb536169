package main

import "github.com/cmlabs-hris/leave-calendar-sync/cmd/syncctl/cmd"

func main() {
	cmd.Execute()
}
