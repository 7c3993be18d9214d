package handlers

import (
	"time"

	"opsdash/utilities"
)

// Atalhos para o logger do pacote utilities.

func LogInfo(format string, v ...interface{})  { utilities.LogInfo(format, v...) }
func LogDebug(format string, v ...interface{}) { utilities.LogDebug(format, v...) }
func LogError(err error, context string)       { utilities.LogError(err, context) }

func LogRequest(requestID, method, path, remoteAddr string, status int, duration time.Duration) {
	utilities.LogRequest(requestID, method, path, remoteAddr, status, duration)
}
