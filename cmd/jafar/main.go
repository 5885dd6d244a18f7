// Command jafar runs the behavior specs linked into it. This build links in
// jafar's own specs; a project builds its own runner the same way by
// blank-importing its spec packages and calling jafar.Main.
package main

import (
	"github.com/roach88/jafar"

	_ "github.com/roach88/jafar/internal/selfcheck"
)

func main() {
	jafar.Main()
}
