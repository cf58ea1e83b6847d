/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
)

// Error constants representing different types of errors.
const (
	ErrorInvalidMethod  = "ErrorInvalidMethod"
	ErrorInvalidRequest = "ErrorInvalidRequest"
	Error               = "Error"
)

type Status struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SetStatus writes the error code and message as the JSON body of the response.
func SetStatus(w http.ResponseWriter, code, msg string) {
	r := &Status{Code: code, Message: msg}
	if js, err := json.Marshal(r); err == nil {
		w.Header().Set("Content-Type", "application/json")
		Ignore2(w.Write(js))
	} else {
		panic(fmt.Sprintf("Unable to marshal: %+v", r))
	}
}

// SetStatusWithCode is SetStatus with an HTTP status code other than 200.
func SetStatusWithCode(w http.ResponseWriter, httpCode int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	SetStatus(w, code, msg)
}

func Reply(w http.ResponseWriter, rep interface{}) {
	if js, err := json.Marshal(rep); err == nil {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, string(js))
	} else {
		glog.Errorf("Unable to marshal reply: %v", err)
		SetStatusWithCode(w, http.StatusInternalServerError, Error, "Internal server error")
	}
}

// AddCorsHeaders lets map front ends served from another origin call the API.
func AddCorsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding")
	w.Header().Set("Connection", "close")
}

// Ignore2 is Ignore for calls that return a value as well.
func Ignore2(_ interface{}, _ error) {
	// Do nothing.
}

// Round rounds up the given duration to the nearest millisecond, for logging.
func Round(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
