// Package configs ships the built-in survey profiles.
package configs

import _ "embed"

// DefaultProfile is the profile of the published DHA survey workbook.
//
//go:embed encuesta-dha.yaml
var DefaultProfile []byte
