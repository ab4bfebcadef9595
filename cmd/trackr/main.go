// Command trackr is a terminal client for a JIRA-like issue tracker.
package main

import "github.com/papapumpkin/trackr/cmd"

func main() {
	cmd.Execute()
}
