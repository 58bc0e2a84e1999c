//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the heap inspector into bin/rhi-inspector.
func (Build) Inspector() error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/rhi-inspector", "."), withStream())
	return err
}

// Runs the unit tests of every package.
func (Build) Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs go vet and tidies the module.
func (Build) Lint() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
