// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/cfladder/internal/config"
)

// Meta are the meta-options that are available on all commands.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}

// ConfigSource is the path of the loaded config file, empty when there is
// none.
func (m Meta) ConfigSource() string {
	return m.Config.Source
}
