// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"dagger/geonames/internal/dagger"
)

type Geonames struct{}

// Runs the unit tests and the linters, returns the test output
func (g *Geonames) Check(
	ctx context.Context,
	// +defaultPath="/"
	// +ignore=["build", "_examples"]
	src *dagger.Directory,
) (string, error) {
	return g.BuildCliValidate(ctx, src).
		WithEnvVariable("CGO_ENABLED", "1").
		WithExec([]string{"go", "test", "-race", "-count=1", "./..."}).
		Stdout(ctx)
}

// Starts the lookup server as a service, ready for `dagger call serve up`
func (g *Geonames) Serve(
	ctx context.Context,
	// +defaultPath="/"
	// +ignore=["build", "_examples"]
	src *dagger.Directory,
	// GeoNames account username
	username *dagger.Secret,
) *dagger.Service {
	return g.BuildCli(ctx, src).
		WithSecretVariable("GEONAMES_USERNAME", username).
		WithExposedPort(8080).
		AsService(dagger.ContainerAsServiceOpts{
			Args: []string{"/app/geonames", "serve", "--listen", "0.0.0.0:8080"},
		})
}
