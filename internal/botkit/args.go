package botkit

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ParseJSON разбирает аргументы команды вида /addsource {"name": "...", "url": "..."}
func ParseJSON[T any](src string) (T, error) {
	var args T

	if strings.TrimSpace(src) == "" {
		return args, errors.New("command arguments are empty, JSON expected")
	}

	if err := json.Unmarshal([]byte(src), &args); err != nil {
		return args, errors.Wrap(err, "invalid JSON arguments")
	}

	return args, nil
}
