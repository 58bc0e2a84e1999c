//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Inspects the bundled forward scene.
func (Run) Inspector() error {
	mg.Deps(Build.Inspector)
	fmt.Println("Run inspector...")
	_, err := executeCmd("bin/rhi-inspector", withArgs("-scene", "testbed/testdata/forward.toml"), withStream())
	return err
}

// Inspects a scene and re-inspects it on every change.
func (Run) Watch(scene string) error {
	mg.Deps(Build.Inspector)
	_, err := executeCmd("bin/rhi-inspector", withArgs("-watch", "-log-level", "debug", "-scene", scene), withStream())
	return err
}
