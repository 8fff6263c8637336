// gonetctl is the CLI client and manual-test harness for the gonet TCP
// server framework.
package main

import "github.com/renebarto/gonet/cmd/gonetctl/commands"

func main() {
	commands.Execute()
}
