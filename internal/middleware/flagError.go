package middleware

import (
	"errors"

	"github.com/rpack-dev/rpack/internal/errs"
	"github.com/rpack-dev/rpack/internal/logger"
)

var ErrLogged = errors.New("already logged")

func FlagComboError(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return ErrLogged
}
