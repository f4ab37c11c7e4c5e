package utils

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON décode le corps de la requête en rejetant les champs inconnus
func DecodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}
