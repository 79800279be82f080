package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/formhive/survey-api/log"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404
// and a JSON body carrying the given detail message
func LogNotFound(w http.ResponseWriter, code string, detail string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	writeDetail(w, http.StatusNotFound, detail)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level, and send an HTTP
// response with the given status and a JSON body {"detail": message}
func LogDetailMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	detail := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", detail)
	writeDetail(w, status, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
