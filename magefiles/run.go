//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Plays the sample model with config.toml.
func (Run) Demo() error {
	mg.Deps(Test)
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", "."), withStream()); err != nil {
		return err
	}
	return nil
}
