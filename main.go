// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/cwrc/geonames/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
