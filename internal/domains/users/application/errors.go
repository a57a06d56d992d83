package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrUnknownRole) ||
		errors.Is(err, ports.ErrUsernameTaken) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
