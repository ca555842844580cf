// Package repository is the persistence gateway: document-style CRUD and
// equality-filtered queries over surveys, responses and users. Every call is
// an independent round trip; there are no cross-call transactions, and a
// concurrent update wins by being written last.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("repository: not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
