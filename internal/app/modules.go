package app

import (
	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/flagstore"
	"github.com/modshell/modshell/modules/chat"
	"github.com/modshell/modshell/modules/health"
	"github.com/modshell/modshell/modules/home"
	"github.com/modshell/modshell/modules/session"
	"github.com/modshell/modshell/modules/settings"
)

// coreModules is the definitive list of all modules compiled into the
// modshell binary. Which of them activate, and in what order, is decided
// entirely by the manifest.
func coreModules(flags *flagstore.Store) []catalog.Module {
	return []catalog.Module{
		&home.Module{},
		&settings.Module{},
		chat.New(),
		session.New(flags),
		health.New(flags),
	}
}
