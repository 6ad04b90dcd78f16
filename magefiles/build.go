//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs go mod download and then builds the binary.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/marionette", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs every package test with the race detector, which needs cgo.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}
