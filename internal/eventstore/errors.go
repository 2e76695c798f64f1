package eventstore

import (
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

func storeError(message string, err error) error {
	return errors.EventStoreError(message).WithCause(err).Build()
}
