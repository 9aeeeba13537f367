package middleware

import (
	"fmt"
	"net/http"

	"auction-marketplace/pkg/logger"

	"github.com/gorilla/handlers"
)

type recoveryLogger struct {
	log logger.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.log.Error("Recovered from panic", "panic", fmt.Sprint(v...))
}

// Recovery turns handler panics into 500s and logs them.
func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log: log}))
}
