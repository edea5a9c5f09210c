// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes place lookups over HTTP for browser front-ends.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/cwrc/geonames/geonames"
	"github.com/gin-gonic/gin"
)

// PlaceFinder is implemented by *geonames.Client.
type PlaceFinder interface {
	FindPlace(ctx context.Context, query string) ([]geonames.NormalizedPlace, error)
}

// Handler serves the lookup endpoint.
type Handler struct {
	finder PlaceFinder
}

// NewHandler returns a handler backed by finder.
func NewHandler(finder PlaceFinder) *Handler {
	return &Handler{finder: finder}
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/api/places", h.findPlace)
}

// findPlace handles GET /api/places?q=...
func (h *Handler) findPlace(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})

		return
	}

	places, err := h.finder.FindPlace(ctx.Request.Context(), query)
	if err != nil {
		log.Printf("Lookup %q failed - %s", query, err)
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, places)
}

// statusFor maps lookup failures to the status reported to our own callers.
func statusFor(err error) int {
	switch {
	case geonames.IsMissingCredentials(err):
		return http.StatusInternalServerError
	case geonames.IsTimeout(err):
		return http.StatusGatewayTimeout
	case geonames.IsUpstreamHTTP(err), geonames.IsTransport(err), geonames.IsMalformedResponse(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Server runs the lookup API.
type Server struct {
	engine *gin.Engine
	listen string
}

// New builds a gin engine with the lookup routes.
func New(finder PlaceFinder, listen string) *Server {
	r := gin.Default()
	NewHandler(finder).Register(r)

	return &Server{engine: r, listen: listen}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	return s.engine.Run(s.listen)
}
