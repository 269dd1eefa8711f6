package web

import "embed"

// DistFS contains the static preview page served by `bqddl serve`.
//
//go:embed all:dist
var DistFS embed.FS
