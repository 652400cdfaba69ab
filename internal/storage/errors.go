package storage

import (
	"database/sql"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

// UPDATE без затронутых строк - записи с таким id нет
func requireAffected(res sql.Result, entity string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "%s %d rows affected", entity, id)
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "%s %d", entity, id)
	}
	return nil
}
