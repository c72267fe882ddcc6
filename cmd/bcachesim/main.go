// Command bcachesim runs a blocking cache between a test source, a memory and
// a test sink, and reports whether every response matched.
package main

import "github.com/sarchlab/blockingcache/cmd/bcachesim/cmd"

func main() {
	cmd.Execute()
}
