package events

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[string]actionFunc
}

func newActionFactory(onDelivered, onFailed actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[string]actionFunc{
			"delivered": onDelivered,
			"failed":    onFailed,
			"returned":  onFailed,
		},
	}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	fn, ok := f.byStatus[status]
	return fn, ok
}
