// Package graphstore is the Graph Store Adapter: a thin CozoDB binding plus
// the relation schema, batching, and scope-filtered query helpers the rest
// of the pipeline uses instead of talking CozoScript directly.
package graphstore

/*
#include <stdlib.h>
#include "cozo_c.h"
#cgo LDFLAGS: -L${SRCDIR}/../../lib -lcozo_c -lstdc++ -lm
#cgo windows LDFLAGS: -lbcrypt -lwsock32 -lws2_32 -lshlwapi -lrpcrt4
#cgo darwin LDFLAGS: -framework Security
*/
import "C"

import (
	"encoding/json"
	"errors"
	"fmt"
	"unsafe"
)

// db wraps one open CozoDB instance. Exported only via Store, which adds
// the relation-aware methods the rest of the codebase calls.
type db struct {
	id     C.int32_t
	closed bool
}

// NamedRows is a raw query result: column headers and row values.
type NamedRows struct {
	Headers []string
	Rows    [][]any
}

// openDB opens a CozoDB instance. engine is "mem", "sqlite", or "rocksdb";
// path is ignored for "mem".
func openDB(engine, path string) (*db, error) {
	cEngine := C.CString(engine)
	defer C.free(unsafe.Pointer(cEngine))

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	cOptions := C.CString("{}")
	defer C.free(unsafe.Pointer(cOptions))

	var dbID C.int32_t
	errPtr := C.cozo_open_db(cEngine, cPath, cOptions, &dbID)
	if errPtr != nil {
		msg := C.GoString(errPtr)
		C.cozo_free_str(errPtr)
		return nil, errors.New(msg)
	}
	return &db{id: dbID}, nil
}

func (d *db) run(script string, params map[string]any, immutable bool) (NamedRows, error) {
	if d.closed {
		return NamedRows{}, errors.New("graphstore: database is closed")
	}

	cScript := C.CString(script)
	defer C.free(unsafe.Pointer(cScript))

	paramsJSON := "{}"
	if len(params) > 0 {
		b, err := json.Marshal(params)
		if err != nil {
			return NamedRows{}, fmt.Errorf("marshal query params: %w", err)
		}
		paramsJSON = string(b)
	}
	cParams := C.CString(paramsJSON)
	defer C.free(unsafe.Pointer(cParams))

	resultPtr := C.cozo_run_query(d.id, cScript, cParams, C.bool(immutable))
	if resultPtr == nil {
		return NamedRows{}, errors.New("graphstore: cozo_run_query returned null")
	}
	resultJSON := C.GoString(resultPtr)
	C.cozo_free_str(resultPtr)

	return parseResult(resultJSON)
}

func parseResult(jsonStr string) (NamedRows, error) {
	var result struct {
		OK      bool     `json:"ok"`
		Headers []string `json:"headers"`
		Rows    [][]any  `json:"rows"`
		Message string   `json:"message"`
		Display string   `json:"display"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return NamedRows{}, fmt.Errorf("parse cozo result: %w", err)
	}
	if !result.OK {
		msg := result.Message
		if msg == "" {
			msg = result.Display
		}
		if msg == "" {
			msg = "query failed"
		}
		return NamedRows{}, errors.New(msg)
	}
	return NamedRows{Headers: result.Headers, Rows: result.Rows}, nil
}

func (d *db) close() bool {
	if d.closed {
		return false
	}
	d.closed = true
	return bool(C.cozo_close_db(d.id))
}

func (d *db) backup(outPath string) error {
	if d.closed {
		return errors.New("graphstore: database is closed")
	}
	cPath := C.CString(outPath)
	defer C.free(unsafe.Pointer(cPath))

	resultPtr := C.cozo_backup(d.id, cPath)
	if resultPtr == nil {
		return errors.New("graphstore: cozo_backup returned null")
	}
	resultJSON := C.GoString(resultPtr)
	C.cozo_free_str(resultPtr)

	var result struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return fmt.Errorf("parse backup result: %w", err)
	}
	if !result.OK {
		return errors.New(result.Message)
	}
	return nil
}
