//go:build cgo

package catalogcache

import (
	_ "github.com/mattn/go-sqlite3"
)

func driverName() string {
	return "sqlite3"
}
