// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for compass-chat.
//
// The reply service address is deliberately injected configuration rather
// than ambient state read at call sites: the backend client receives its
// base URL at construction, which keeps tests free to point it at an
// httptest server. Global() exists only for the entry points.
package config
