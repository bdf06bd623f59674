//go:build !cgo

package catalogcache

import (
	_ "modernc.org/sqlite"
)

func driverName() string {
	return "sqlite"
}
