package iologger

import (
	"fmt"
	"runtime"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
)

func CreateLogFileError(path string, err error) error {
	msg := `Cannot create log file <em>%s</em>

Possible causes:
  - The log directory does not exist or is not writable

How to fix:
  - Set log.destination to "stderr" in config.yaml
  - Or export FESTSYNC_LOG_DESTINATION=stderr`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create log file: %w",
			fn.Name(), err),
	}
}
