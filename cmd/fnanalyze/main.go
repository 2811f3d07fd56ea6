// Command fnanalyze analyzes real functions of one variable.
//
// Usage:
//
//	fnanalyze analyze "(x^2 - 9)/(x - 3)" --at 3
//	fnanalyze eval "sin(x)/x" --at 0
//	fnanalyze serve --port 8080
package main

import "github.com/njchilds90/fnanalyze/internal/cli"

func main() {
	cli.Execute()
}
