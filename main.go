// The main package for the tvgraph executable.
package main

import "github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/cmd"

func main() {
	cmd.Execute()
}
