package main

import (
	"os"

	"github.com/cristianoliveira/pullscroll/cmd"
	"github.com/cristianoliveira/pullscroll/internal/colors"
	"github.com/cristianoliveira/pullscroll/internal/errors"
)

func main() {
	colors.StructuredInfo("startup", "main", "started", nil)
	if err := cmd.Execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, nil)
		errors.NewDefaultCLIHandler().Error(err.Error())
		os.Exit(1)
	}
	colors.StructuredInfo("startup", "main", "completed", nil)
}
