package main

import (
	"context"
	"fmt"

	"github.com/vito/arepl/pkg/ioctx"
)

// overridden with ldflags
var Version = "dev"
var Commit = ""
var Date = ""

func versionString() string {
	version := Version

	if Date != "" && Commit != "" {
		version += " (" + Date + " commit " + Commit + ")"
	}

	return version
}

func version(ctx context.Context) {
	fmt.Fprintf(ioctx.StdoutFromContext(ctx), "arepl %s\n", versionString())
}
