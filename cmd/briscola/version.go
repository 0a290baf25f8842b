package main

import "fmt"

// VersionCmd prints the build version
type VersionCmd struct{}

func (c *VersionCmd) Run(_ *Globals) error {
	fmt.Printf("briscola %s\n", version)
	return nil
}
