//go:build eisdk

package main

import _ "github.com/mpromonet/edge-inference/internal/engine/eisdk"
