// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "github.com/danielhkuo/ballot-ledger/models"

// gate admits structural mutations from the admin identity only.
type gate struct {
	admin models.Identity
}

func (g gate) authorize(caller models.Identity) error {
	if g.admin == "" || caller != g.admin {
		return ErrNotAdmin
	}
	return nil
}

// IsAdmin reports whether caller is the ledger's admin.
func (l *Ledger) IsAdmin(caller models.Identity) bool {
	return l.gate.authorize(caller) == nil
}
