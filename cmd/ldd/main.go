// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command ldd builds, inspects and exports list decision diagrams saved in the
// binary format of package ldd.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
