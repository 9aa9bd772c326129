package servers

import (
	"errors"
	"fmt"
)

var (
	ErrServerStart = errors.New("server failed to start")
	ErrServerStop  = errors.New("server failed to stop")
)

func ErrServerFailedToStart(name string, err error) error {
	return fmt.Errorf("%s: %w: %w", name, ErrServerStart, err)
}

func ErrServerFailedToStop(name string, err error) error {
	return fmt.Errorf("%s: %w: %w", name, ErrServerStop, err)
}
