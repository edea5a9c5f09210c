// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package geonames

import "sync"

// Credentials holds the GeoNames account used for lookups.
//
// The host owns writes. A Client keeps a pointer and reads the username on
// every call, so changes are visible to the next lookup.
type Credentials struct {
	mu       sync.RWMutex
	username string
}

// NewCredentials returns credentials for the given username.
func NewCredentials(username string) *Credentials {
	return &Credentials{username: username}
}

// Username returns the current username.
func (c *Credentials) Username() string {
	if c == nil {
		return ""
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.username
}

// SetUsername replaces the username.
func (c *Credentials) SetUsername(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.username = username
}
