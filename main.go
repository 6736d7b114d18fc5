// Package main exists only to point users at the two real entry
// points: the assembler and the simulator.
//
// Assemble a program:
//
//	go run ./cmd/pas -i program.asm -o program.img
//
// Run it on the 5-stage pipeline (or -mode=single for the reference
// interpreter):
//
//	go run ./cmd/psim program.img
package main

import "fmt"

func main() {
	fmt.Println("pipesim has no single binary; use its two commands directly:")
	fmt.Println("")
	fmt.Println("  go run ./cmd/pas -i program.asm -o program.img")
	fmt.Println("  go run ./cmd/psim program.img")
}
