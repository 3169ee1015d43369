/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/tyrestrat/cmd"

func main() {
	cmd.Execute()
}
