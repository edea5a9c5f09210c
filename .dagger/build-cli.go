// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

// Builds the command line tool
package main

import (
	"context"
	"dagger/geonames/internal/dagger"
)

const (
	goImage        = "golang:1.25.5-bookworm"
	runtimeImage   = "gcr.io/distroless/static-debian12"
	builderUser    = "builder"
	distrolessUser = "65532" // nonroot user in distroless images
	binaryPath     = "/src/build/geonames"
)

// tools installed by BuildCliValidate
var linters = []string{
	"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	"github.com/securego/gosec/v2/cmd/gosec@latest",
	"golang.org/x/vuln/cmd/govulncheck@latest",
	"github.com/google/addlicense@latest",
}

// goContainer is a Go toolchain container with module and build caches
// owned by an unprivileged user and the module dependencies downloaded.
func goContainer(src *dagger.Directory) *dagger.Container {
	const home = "/home/" + builderUser

	ctr := dag.Container().
		From(goImage).
		WithExec([]string{"useradd", "-m", "-u", "1000", builderUser}).
		WithWorkdir("/src").
		WithMountedCache("/go/pkg", dag.CacheVolume("geonames-go-pkg"),
			dagger.ContainerWithMountedCacheOpts{Owner: builderUser}).
		WithMountedCache(home+"/.cache", dag.CacheVolume("geonames-go-build"),
			dagger.ContainerWithMountedCacheOpts{Owner: builderUser}).
		WithEnvVariable("GOCACHE", home+"/.cache/go-build").
		// go.mod and go.sum alone, so source edits keep the download layer
		WithFile("go.mod", src.File("go.mod")).
		WithFile("go.sum", src.File("go.sum")).
		WithExec([]string{"chown", "-R", builderUser + ":" + builderUser, "/src", home}).
		WithUser(builderUser).
		WithExec([]string{"go", "mod", "download"})

	return ctr.
		WithUser("root").
		WithDirectory("/src", src).
		WithExec([]string{"chown", "-R", builderUser + ":" + builderUser, "/src"}).
		WithUser(builderUser)
}

// Builds the CLI binary
func (g *Geonames) BuildCliBase(
	ctx context.Context,
	// +defaultPath="/"
	// +ignore=["build", "_examples"]
	src *dagger.Directory,
) *dagger.Container {
	return goContainer(src).
		WithEnvVariable("CGO_ENABLED", "0").
		WithExec([]string{"go", "build", "-trimpath", "-o", binaryPath, "main.go"})
}

// Runs validation on CLI code
func (g *Geonames) BuildCliValidate(
	ctx context.Context,
	// +defaultPath="/"
	// +ignore=["build", "_examples"]
	src *dagger.Directory,
) *dagger.Container {
	ctr := g.BuildCliBase(ctx, src)
	for _, linter := range linters {
		ctr = ctr.WithExec([]string{"go", "install", "-v", linter})
	}

	return ctr.
		WithExec([]string{"golangci-lint", "run", "--timeout", "5m", "./..."}).
		WithExec([]string{"gosec", "-no-fail", "-exclude-generated", "-exclude-dir", ".dagger", "./..."}).
		WithExec([]string{"govulncheck", "./..."}).
		WithExec([]string{
			"addlicense",
			"--check",
			"--ignore", "build/**",
			"--ignore", "_examples/**",
			"--ignore", ".dagger/internal/**",
			"-c", "The CWRC GeoNames Authors",
			"-l", "apache",
			"-s=only",
			".",
		})
}

// Returns a container with the CLI built standalone
func (g *Geonames) BuildCli(
	ctx context.Context,
	// +defaultPath="/"
	// +ignore=["build", "_examples"]
	src *dagger.Directory,
) *dagger.Container {
	return dag.Container().
		From(runtimeImage).
		WithWorkdir("/app").
		WithFile("/app/geonames", g.BuildCliBase(ctx, src).File(binaryPath)).
		WithUser(distrolessUser).
		WithEntrypoint([]string{"/app/geonames"})
}
